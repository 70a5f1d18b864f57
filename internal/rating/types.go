package rating

import "errors"

// Outcome is the result of one set from the perspective of side 1.
// The numeric values take part in the rating formula and must not change.
type Outcome int

const (
	Win  Outcome = 1
	Loss Outcome = -1
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// Set is an outcome repeated Count times.
type Set struct {
	Outcome Outcome `json:"outcome" msgpack:"outcome"`
	Count   int     `json:"count" msgpack:"count"`
}

// Result holds the final ratings of both sides and side 1's win/loss totals.
type Result struct {
	Rating1 int
	Rating2 int
	Wins    int
	Losses  int
}

// ErrConfiguration is returned when the calculator constants cannot be used.
var ErrConfiguration = errors.New("invalid rating configuration")
