package ladder

import "time"

type ChallengeStatus string

const (
	StatusNone     ChallengeStatus = "none"
	StatusPending  ChallengeStatus = "pending"
	StatusAccepted ChallengeStatus = "accepted"
)

// Challenge is a proposed or accepted match between two teams. The rosters
// are copies taken when the challenge was issued.
type Challenge struct {
	ID         string
	CreatedAt  time.Time
	challenger *Team
	challenged *Team
	accepted   bool
	seq        uint64
}

func (c *Challenge) Accepted() bool {
	return c.accepted
}

func (c *Challenge) Status() ChallengeStatus {
	if c.accepted {
		return StatusAccepted
	}
	return StatusPending
}

func (c *Challenge) Challenger() []string {
	return c.challenger.Players()
}

func (c *Challenge) Challenged() []string {
	return c.challenged.Players()
}

// Participants returns challenger ids followed by challenged ids.
func (c *Challenge) Participants() []string {
	return append(c.challenger.Players(), c.challenged.Players()...)
}

func (c *Challenge) IsOneVOne() bool {
	return c.challenger.Len() == 1 && c.challenged.Len() == 1
}

// Sides returns the player's own roster and the opposing roster.
func (c *Challenge) Sides(playerID string) (own, other *Team) {
	if c.challenger.Contains(playerID) {
		return c.challenger, c.challenged
	}
	return c.challenged, c.challenger
}

// View returns a read-only copy for presentation.
func (c *Challenge) View() ChallengeView {
	return ChallengeView{
		ID:         c.ID,
		Challenger: c.Challenger(),
		Challenged: c.Challenged(),
		Accepted:   c.accepted,
		CreatedAt:  c.CreatedAt,
	}
}
