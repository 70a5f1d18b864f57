package notifier

import (
	"context"

	"github.com/mauv0809/ladder-manager/internal/config"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/ratings"
)

// Notifier defines a high-level interface for sending notifications about ladder events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// Posted to the ladder channel
	SendMatchResult(ctx context.Context, result ladder.MatchResolved, dryRun bool) error

	// For formatting responses for slash commands
	FormatHelpResponse() (any, error)
	FormatRulesResponse(cfg config.LadderConfig) (any, error)
	FormatErrorResponse(err error) (any, error)
	FormatTeamCreatedResponse(result ladder.TeamCreated) (any, error)
	FormatTeamInviteResponse(result ladder.TeamInviteApplied) (any, error)
	FormatTeamAcceptedResponse(result ladder.TeamAccepted) (any, error)
	FormatTeamLeftResponse(result ladder.TeamLeft) (any, error)
	FormatTeamStatusResponse(playerID string, team ladder.TeamView, onTeam bool) (any, error)
	FormatChallengeCreatedResponse(result ladder.ChallengeCreated) (any, error)
	FormatChallengeAcceptedResponse(result ladder.ChallengeAccepted) (any, error)
	FormatChallengeClosedResponse(result ladder.ChallengeClosed) (any, error)
	FormatMatchResolvedResponse(result ladder.MatchResolved) (any, error)
	FormatLeaderboardResponse(boards []Leaderboard) (any, error)
	FormatStatsResponse(playerID string, stats []ladder.PlayerStats) (any, error)
	FormatRecordResponse(playerID string, records []ladder.PlayerRecord) (any, error)
	FormatOngoingResponse(challenges []ladder.ChallengeView) (any, error)
}

// Leaderboard is one partition's standings as shown to players.
type Leaderboard struct {
	Partition ratings.Partition
	Standings []ratings.Standing
	// Total is the number of active players, which can exceed len(Standings).
	Total int
}
