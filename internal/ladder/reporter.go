package ladder

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-manager/internal/config"
	"github.com/mauv0809/ladder-manager/internal/rating"
	"github.com/mauv0809/ladder-manager/internal/ratings"
)

// MatchReporter turns a reported result into rating record changes.
type MatchReporter struct {
	cfg        config.LadderConfig
	calc       rating.Calculator
	store      *ratings.Store
	challenges *ChallengeRegistry
}

func NewMatchReporter(cfg config.LadderConfig, store *ratings.Store, challenges *ChallengeRegistry) (*MatchReporter, error) {
	calc, err := rating.NewCalculator(cfg.BaseRatingChange, cfg.PredictionDifference)
	if err != nil {
		return nil, err
	}
	return &MatchReporter{cfg: cfg, calc: calc, store: store, challenges: challenges}, nil
}

// Report records the result of playerID's accepted challenge. sets are from
// the reporter's perspective. All changes are computed on copies before any
// record is written.
func (m *MatchReporter) Report(ctx context.Context, playerID string, sets []rating.Set) (MatchResolved, error) {
	if err := validateSets(sets); err != nil {
		return MatchResolved{}, err
	}
	c, ok := m.challenges.Get(playerID)
	if !ok {
		return MatchResolved{}, ErrNoActiveChallenge
	}
	if !c.Accepted() {
		return MatchResolved{}, ErrChallengeNotYetAccepted
	}

	own, other := c.Sides(playerID)
	partition := ratings.General
	if m.cfg.Separate1v1MMR && c.IsOneVOne() {
		partition = ratings.OneVOne
	}
	table := m.store.Table(partition)

	team1, team2 := own.Players(), other.Players()
	working := make(map[string]ratings.Record, len(team1)+len(team2))
	for _, id := range append(append([]string{}, team1...), team2...) {
		working[id] = m.lookup(table, id)
	}
	avg1 := averageRating(working, team1)
	avg2 := averageRating(working, team2)

	res := m.calc.Calculate(avg1, avg2, sets)
	delta1 := res.Rating1 - avg1
	delta2 := res.Rating2 - avg2

	applySide(working, team1, team2, delta1, res.Wins, res.Losses)
	applySide(working, team2, team1, delta2, res.Losses, res.Wins)

	for id, rec := range working {
		table.Put(id, rec)
	}
	if _, err := m.challenges.Resolve(playerID); err != nil {
		return MatchResolved{}, err
	}

	result := MatchResolved{
		ChallengeID: c.ID,
		Partition:   partition,
		Team1:       team1,
		Team2:       team2,
		Team1Rating: avg1,
		Team2Rating: avg2,
		Team1Delta:  delta1,
		Team2Delta:  delta2,
		Team1Wins:   res.Wins,
		Team2Wins:   res.Losses,
	}
	log.Info("Match resolved", "challengeID", c.ID, "partition", partition, "team1Delta", delta1, "team2Delta", delta2)

	if err := m.store.Persist(ctx); err != nil {
		return result, &PersistenceWarning{Err: err}
	}
	return result, nil
}

// lookup returns the player's active record, their archived record, or a
// fresh starting record.
func (m *MatchReporter) lookup(table *ratings.Table, playerID string) ratings.Record {
	if rec, ok := table.Get(playerID); ok {
		return rec
	}
	if rec, ok := table.GetArchived(playerID); ok {
		return rec
	}
	return ratings.NewRecord(m.cfg.StartingRating)
}

func validateSets(sets []rating.Set) error {
	if len(sets) == 0 {
		return ErrMalformedReport
	}
	for _, s := range sets {
		if s.Count < 1 || (s.Outcome != rating.Win && s.Outcome != rating.Loss) {
			return ErrMalformedReport
		}
	}
	return nil
}

func averageRating(records map[string]ratings.Record, ids []string) int {
	total := 0
	for _, id := range ids {
		total += records[id].Rating
	}
	return rating.FloorDiv(total, len(ids))
}

func applySide(records map[string]ratings.Record, side, opponents []string, delta, wins, losses int) {
	for _, id := range side {
		rec := records[id]
		rec.AddResult(delta, wins, losses)
		for _, opp := range opponents {
			rec.AddHeadToHead(opp, wins, losses)
		}
		records[id] = rec
	}
}
