package ladder

import "github.com/mauv0809/ladder-manager/internal/ratings"

// Leaderboard returns active standings for a partition, best first. limit <= 0
// returns every standing.
func (s *Service) Leaderboard(partition ratings.Partition, limit int) []ratings.Standing {
	s.mu.Lock()
	defer s.mu.Unlock()

	standings := s.store.Table(partition).Standings()
	if limit > 0 && len(standings) > limit {
		standings = standings[:limit]
	}
	return standings
}

// Stats returns the player's standing in every partition where they have an
// active record.
func (s *Service) Stats(playerID string) []PlayerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats []PlayerStats
	for _, p := range s.Partitions() {
		table := s.store.Table(p)
		rec, ok := table.Get(playerID)
		if !ok {
			continue
		}
		place, _ := table.Place(playerID)
		stats = append(stats, PlayerStats{
			Partition: p,
			Rating:    rec.Rating,
			Wins:      rec.Wins,
			Losses:    rec.Losses,
			Place:     place,
			Of:        table.Len(),
		})
	}
	return stats
}

// Record returns the player's head-to-head history per partition.
func (s *Service) Record(playerID string) []PlayerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []PlayerRecord
	for _, p := range s.Partitions() {
		rec, ok := s.store.Table(p).Get(playerID)
		if !ok {
			continue
		}
		records = append(records, PlayerRecord{Partition: p, Opponents: rec.Opponents})
	}
	return records
}

// Ongoing lists live challenges, oldest first.
func (s *Service) Ongoing() []ChallengeView {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.challenges.Ongoing()
	views := make([]ChallengeView, 0, len(live))
	for _, c := range live {
		views = append(views, c.View())
	}
	return views
}

// ChallengeStatus returns the player's challenge state.
func (s *Service) ChallengeStatus(playerID string) ChallengeStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.challenges.Status(playerID)
}
