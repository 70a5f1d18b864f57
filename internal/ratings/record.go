package ratings

// NewRecord returns an empty record starting at the given rating.
func NewRecord(startingRating int) Record {
	return Record{
		Rating:    startingRating,
		Opponents: make(map[string]HeadToHead),
	}
}

// Clone returns a deep copy so callers can build changes without touching
// the stored value.
func (r Record) Clone() Record {
	c := r
	c.Opponents = make(map[string]HeadToHead, len(r.Opponents))
	for id, h := range r.Opponents {
		c.Opponents[id] = h
	}
	return c
}

// AddResult applies a rating delta and a win/loss tally.
func (r *Record) AddResult(delta, wins, losses int) {
	r.Rating += delta
	r.Wins += wins
	r.Losses += losses
}

// AddHeadToHead accumulates wins and losses against an opponent.
func (r *Record) AddHeadToHead(opponentID string, wins, losses int) {
	if r.Opponents == nil {
		r.Opponents = make(map[string]HeadToHead)
	}
	h := r.Opponents[opponentID]
	h.Wins += wins
	h.Losses += losses
	r.Opponents[opponentID] = h
}
