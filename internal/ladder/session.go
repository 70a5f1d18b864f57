package ladder

import "time"

// SessionState is the serializable form of teams and live challenges.
type SessionState struct {
	Teams      []TeamState      `msgpack:"teams"`
	Challenges []ChallengeState `msgpack:"challenges"`
}

type TeamState struct {
	Members []Member `msgpack:"members"`
}

type ChallengeState struct {
	ID         string   `msgpack:"id"`
	CreatedAt  int64    `msgpack:"created_at"`
	Challenger []Member `msgpack:"challenger"`
	Challenged []Member `msgpack:"challenged"`
	Accepted   bool     `msgpack:"accepted"`
}

func (s *Service) snapshotSession() SessionState {
	var state SessionState
	for _, t := range s.teams.Teams() {
		state.Teams = append(state.Teams, TeamState{Members: t.Members()})
	}
	for _, c := range s.challenges.Ongoing() {
		state.Challenges = append(state.Challenges, ChallengeState{
			ID:         c.ID,
			CreatedAt:  c.CreatedAt.UnixNano(),
			Challenger: c.challenger.Members(),
			Challenged: c.challenged.Members(),
			Accepted:   c.accepted,
		})
	}
	return state
}

func (s *Service) applySession(state SessionState) (teams, challenges int) {
	for _, ts := range state.Teams {
		if len(ts.Members) == 0 {
			continue
		}
		s.teams.register(teamFromMembers(ts.Members))
		teams++
	}
	for _, cs := range state.Challenges {
		c := &Challenge{
			ID:         cs.ID,
			CreatedAt:  time.Unix(0, cs.CreatedAt),
			challenger: teamFromMembers(cs.Challenger),
			challenged: teamFromMembers(cs.Challenged),
			accepted:   cs.Accepted,
		}
		if c.challenger.IsEmpty() || c.challenged.IsEmpty() || !s.challenges.restore(c) {
			continue
		}
		challenges++
	}
	return teams, challenges
}
