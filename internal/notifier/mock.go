package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/ladder-manager/internal/config"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/slack-go/slack"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// Format methods return a slack.Message whose Text names the formatter, so
// callers can tell which response was rendered.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendMatchResultFunc     func(ctx context.Context, result ladder.MatchResolved, dryRun bool) error
	FormatErrorResponseFunc func(err error) (any, error)

	// Call records
	SendMatchResultCalls []struct {
		Result ladder.MatchResolved
		DryRun bool
	}
	FormatErrorCalls []error
	FormatCalls      []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.FormatErrorCalls = nil
	m.FormatCalls = nil
}

func (m *Mock) SendMatchResult(ctx context.Context, result ladder.MatchResolved, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, struct {
		Result ladder.MatchResolved
		DryRun bool
	}{result, dryRun})
	fn := m.SendMatchResultFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, result, dryRun)
	}
	return nil
}

func (m *Mock) FormatErrorResponse(err error) (any, error) {
	m.mu.Lock()
	m.FormatErrorCalls = append(m.FormatErrorCalls, err)
	fn := m.FormatErrorResponseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(err)
	}
	return m.formatted("error")
}

func (m *Mock) FormatHelpResponse() (any, error) {
	return m.formatted("help")
}

func (m *Mock) FormatRulesResponse(cfg config.LadderConfig) (any, error) {
	return m.formatted("rules")
}

func (m *Mock) FormatTeamCreatedResponse(result ladder.TeamCreated) (any, error) {
	return m.formatted("team_created")
}

func (m *Mock) FormatTeamInviteResponse(result ladder.TeamInviteApplied) (any, error) {
	return m.formatted("team_invite")
}

func (m *Mock) FormatTeamAcceptedResponse(result ladder.TeamAccepted) (any, error) {
	return m.formatted("team_accepted")
}

func (m *Mock) FormatTeamLeftResponse(result ladder.TeamLeft) (any, error) {
	return m.formatted("team_left")
}

func (m *Mock) FormatTeamStatusResponse(playerID string, team ladder.TeamView, onTeam bool) (any, error) {
	return m.formatted("team_status")
}

func (m *Mock) FormatChallengeCreatedResponse(result ladder.ChallengeCreated) (any, error) {
	return m.formatted("challenge_created")
}

func (m *Mock) FormatChallengeAcceptedResponse(result ladder.ChallengeAccepted) (any, error) {
	return m.formatted("challenge_accepted")
}

func (m *Mock) FormatChallengeClosedResponse(result ladder.ChallengeClosed) (any, error) {
	return m.formatted("challenge_closed")
}

func (m *Mock) FormatMatchResolvedResponse(result ladder.MatchResolved) (any, error) {
	return m.formatted("match_resolved")
}

func (m *Mock) FormatLeaderboardResponse(boards []Leaderboard) (any, error) {
	return m.formatted("leaderboard")
}

func (m *Mock) FormatStatsResponse(playerID string, stats []ladder.PlayerStats) (any, error) {
	return m.formatted("stats")
}

func (m *Mock) FormatRecordResponse(playerID string, records []ladder.PlayerRecord) (any, error) {
	return m.formatted("record")
}

func (m *Mock) FormatOngoingResponse(challenges []ladder.ChallengeView) (any, error) {
	return m.formatted("ongoing")
}

func (m *Mock) formatted(kind string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatCalls = append(m.FormatCalls, kind)
	return slack.Message{Msg: slack.Msg{Text: kind}}, nil
}
