package ladder

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ChallengeRegistry maps every engaged player to their live challenge.
type ChallengeRegistry struct {
	byPlayer map[string]*Challenge
	now      func() time.Time
	seq      uint64
}

func NewChallengeRegistry() *ChallengeRegistry {
	return &ChallengeRegistry{
		byPlayer: make(map[string]*Challenge),
		now:      time.Now,
	}
}

// Create registers a pending challenge from challenger to challenged.
func (r *ChallengeRegistry) Create(challenger, challenged *Team) (*Challenge, error) {
	if challenger.Equal(challenged) {
		return nil, ErrInvalidChallengeTarget
	}
	for _, t := range []*Team{challenger, challenged} {
		for _, id := range t.Players() {
			if _, engaged := r.byPlayer[id]; engaged {
				return nil, ErrParticipantAlreadyEngaged
			}
		}
	}
	c := &Challenge{
		ID:         uuid.New().String(),
		CreatedAt:  r.now(),
		challenger: challenger.clone(),
		challenged: challenged.clone(),
	}
	r.add(c)
	return c, nil
}

func (r *ChallengeRegistry) Get(playerID string) (*Challenge, bool) {
	c, ok := r.byPlayer[playerID]
	return c, ok
}

func (r *ChallengeRegistry) Status(playerID string) ChallengeStatus {
	c, ok := r.byPlayer[playerID]
	if !ok {
		return StatusNone
	}
	return c.Status()
}

// Accept moves a pending challenge to accepted. Only a member of the
// challenged roster may accept.
func (r *ChallengeRegistry) Accept(playerID string) (*Challenge, error) {
	c, ok := r.byPlayer[playerID]
	if !ok {
		return nil, ErrNoActiveChallenge
	}
	if !c.challenged.Contains(playerID) {
		return nil, ErrNotChallengedParty
	}
	if c.accepted {
		return nil, ErrAlreadyAccepted
	}
	c.accepted = true
	return c, nil
}

// Cancel removes the player's challenge for every participant.
func (r *ChallengeRegistry) Cancel(playerID string) (*Challenge, error) {
	c, ok := r.byPlayer[playerID]
	if !ok {
		return nil, ErrNoActiveChallenge
	}
	r.remove(c)
	return c, nil
}

// Decline behaves exactly like Cancel.
func (r *ChallengeRegistry) Decline(playerID string) (*Challenge, error) {
	return r.Cancel(playerID)
}

// Resolve closes an accepted challenge after its result was recorded.
func (r *ChallengeRegistry) Resolve(playerID string) (*Challenge, error) {
	c, ok := r.byPlayer[playerID]
	if !ok {
		return nil, ErrNoActiveChallenge
	}
	if !c.accepted {
		return nil, ErrChallengeNotYetAccepted
	}
	r.remove(c)
	return c, nil
}

// Ongoing returns each live challenge once, oldest first.
func (r *ChallengeRegistry) Ongoing() []*Challenge {
	seen := make(map[*Challenge]bool)
	var out []*Challenge
	for _, c := range r.byPlayer {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].seq < out[j].seq
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// restore re-registers a challenge loaded from a session snapshot. It returns
// false when a participant is already engaged.
func (r *ChallengeRegistry) restore(c *Challenge) bool {
	for _, id := range c.Participants() {
		if _, engaged := r.byPlayer[id]; engaged {
			return false
		}
	}
	r.add(c)
	return true
}

func (r *ChallengeRegistry) add(c *Challenge) {
	r.seq++
	c.seq = r.seq
	for _, id := range c.Participants() {
		r.byPlayer[id] = c
	}
}

func (r *ChallengeRegistry) remove(c *Challenge) {
	for _, id := range c.Participants() {
		if r.byPlayer[id] == c {
			delete(r.byPlayer, id)
		}
	}
}
