package ladder

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-manager/internal/config"
	"github.com/mauv0809/ladder-manager/internal/rating"
	"github.com/mauv0809/ladder-manager/internal/ratings"
)

// Service owns all ladder state. Every operation holds mu for its whole
// duration, so operations are applied one at a time.
type Service struct {
	mu         sync.Mutex
	cfg        config.LadderConfig
	teams      *TeamRegistry
	challenges *ChallengeRegistry
	store      *ratings.Store
	reporter   *MatchReporter
	directory  Directory
	sessions   SessionStore
}

// NewService validates cfg and builds an empty ladder. directory and sessions
// may be nil.
func NewService(cfg config.LadderConfig, store *ratings.Store, directory Directory, sessions SessionStore) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	challenges := NewChallengeRegistry()
	reporter, err := NewMatchReporter(cfg, store, challenges)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:        cfg,
		teams:      NewTeamRegistry(),
		challenges: challenges,
		store:      store,
		reporter:   reporter,
		directory:  directory,
		sessions:   sessions,
	}, nil
}

func (s *Service) Config() config.LadderConfig {
	return s.cfg
}

// Restore loads rating records and, when available, the last session
// snapshot. A session that cannot be read is discarded.
func (s *Service) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Load(ctx); err != nil {
		return err
	}
	if s.sessions == nil {
		return nil
	}
	state, err := s.sessions.Load(ctx)
	if err != nil {
		log.Warn("Discarding unreadable session snapshot", "error", err)
		return nil
	}
	teams, challenges := s.applySession(state)
	log.Info("Restored session", "teams", teams, "challenges", challenges)
	return nil
}

// CreateTeam forms a team led by leaderID and invites the given players.
func (s *Service) CreateTeam(ctx context.Context, leaderID string, invitees []string) (TeamCreated, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, invited, skipped, err := s.teams.Create(leaderID, invitees)
	if err != nil {
		return TeamCreated{}, err
	}
	log.Info("Team created", "leader", leaderID, "invited", invited, "skipped", skipped)
	s.saveSession(ctx)
	return TeamCreated{LeaderID: leaderID, Team: viewOf(team), Invited: invited, Skipped: skipped}, nil
}

// InviteToTeam invites players to inviterID's team, creating it if needed.
func (s *Service) InviteToTeam(ctx context.Context, inviterID string, invitees []string) (TeamInviteApplied, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team := s.teams.GetOrCreate(inviterID)
	filtered := make([]string, 0, len(invitees))
	for _, id := range invitees {
		if id != inviterID {
			filtered = append(filtered, id)
		}
	}
	invited, skipped := s.teams.InviteAll(team, filtered)
	if len(invited) == 0 {
		return TeamInviteApplied{}, ErrAlreadyOnTeam
	}
	log.Info("Players invited", "inviter", inviterID, "invited", invited, "skipped", skipped)
	s.saveSession(ctx)
	return TeamInviteApplied{InviterID: inviterID, Team: viewOf(team), Invited: invited, Skipped: skipped}, nil
}

func (s *Service) AcceptTeam(ctx context.Context, playerID string) (TeamAccepted, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, err := s.teams.Accept(playerID)
	if err != nil {
		return TeamAccepted{}, err
	}
	log.Info("Team invitation accepted", "player", playerID, "ready", team.IsReady())
	s.saveSession(ctx)
	return TeamAccepted{PlayerID: playerID, Team: viewOf(team)}, nil
}

func (s *Service) LeaveTeam(ctx context.Context, playerID string) (TeamLeft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, err := s.teams.Remove(playerID)
	if err != nil {
		return TeamLeft{}, err
	}
	log.Info("Player left team", "player", playerID, "remaining", team.Len())
	s.saveSession(ctx)
	return TeamLeft{PlayerID: playerID, Team: viewOf(team)}, nil
}

// TeamStatus returns the player's team when they are on one.
func (s *Service) TeamStatus(playerID string) (TeamView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams.Status(playerID)
	if !ok {
		return TeamView{}, false
	}
	return viewOf(team), true
}

// Challenge issues a challenge from challengerID's team to targetID's team.
func (s *Service) Challenge(ctx context.Context, challengerID, targetID string) (ChallengeCreated, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenger := s.teams.GetOrCreate(challengerID)
	challenged := s.teams.GetOrCreate(targetID)
	if !challenger.AllAccepted() || !challenged.AllAccepted() {
		return ChallengeCreated{}, ErrTeamsNotReady
	}
	if s.cfg.EnforceEqualSizeTeams && challenger.Len() != challenged.Len() {
		return ChallengeCreated{}, ErrTeamSizeMismatch
	}
	c, err := s.challenges.Create(challenger, challenged)
	if err != nil {
		return ChallengeCreated{}, err
	}
	log.Info("Challenge created", "challengeID", c.ID, "challenger", c.Challenger(), "challenged", c.Challenged())
	s.saveSession(ctx)
	return ChallengeCreated{ChallengeID: c.ID, Challenger: c.Challenger(), Challenged: c.Challenged()}, nil
}

func (s *Service) AcceptChallenge(ctx context.Context, playerID string) (ChallengeAccepted, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.challenges.Accept(playerID)
	if err != nil {
		return ChallengeAccepted{}, err
	}
	log.Info("Challenge accepted", "challengeID", c.ID, "player", playerID)
	s.saveSession(ctx)
	return ChallengeAccepted{ChallengeID: c.ID, Challenger: c.Challenger(), Challenged: c.Challenged()}, nil
}

func (s *Service) CancelChallenge(ctx context.Context, playerID string) (ChallengeClosed, error) {
	return s.closeChallenge(ctx, playerID, ReasonCanceled)
}

func (s *Service) DeclineChallenge(ctx context.Context, playerID string) (ChallengeClosed, error) {
	return s.closeChallenge(ctx, playerID, ReasonDeclined)
}

func (s *Service) closeChallenge(ctx context.Context, playerID string, reason CloseReason) (ChallengeClosed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		c   *Challenge
		err error
	)
	if reason == ReasonDeclined {
		c, err = s.challenges.Decline(playerID)
	} else {
		c, err = s.challenges.Cancel(playerID)
	}
	if err != nil {
		return ChallengeClosed{}, err
	}
	log.Info("Challenge closed", "challengeID", c.ID, "reason", reason, "player", playerID)
	s.saveSession(ctx)
	return ChallengeClosed{
		ChallengeID: c.ID,
		Reason:      reason,
		ClosedBy:    playerID,
		Challenger:  c.Challenger(),
		Challenged:  c.Challenged(),
	}, nil
}

// Report records the result of playerID's accepted challenge. A
// *PersistenceWarning comes with a valid result.
func (s *Service) Report(ctx context.Context, playerID string, sets []rating.Set) (MatchResolved, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.reporter.Report(ctx, playerID, sets)
	if err != nil && !IsWarning(err) {
		return MatchResolved{}, err
	}
	s.saveSession(ctx)
	return result, err
}

// Partitions returns the partitions in use under the current configuration.
func (s *Service) Partitions() []ratings.Partition {
	if s.cfg.Separate1v1MMR {
		return []ratings.Partition{ratings.General, ratings.OneVOne}
	}
	return []ratings.Partition{ratings.General}
}

func (s *Service) saveSession(ctx context.Context) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Save(ctx, s.snapshotSession()); err != nil {
		log.Warn("Failed to save session snapshot", "error", fmt.Errorf("failed to save session: %w", err))
	}
}
