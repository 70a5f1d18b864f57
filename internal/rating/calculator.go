package rating

import "fmt"

// Calculator applies the ladder rating formula. It holds no state beyond its
// constants and is safe for concurrent use.
type Calculator struct {
	baseRatingChange     int
	predictionDifference int
}

// NewCalculator validates the constants and returns a Calculator.
func NewCalculator(baseRatingChange, predictionDifference int) (Calculator, error) {
	if predictionDifference <= 0 {
		return Calculator{}, fmt.Errorf("%w: prediction difference must be positive, got %d", ErrConfiguration, predictionDifference)
	}
	return Calculator{
		baseRatingChange:     baseRatingChange,
		predictionDifference: predictionDifference,
	}, nil
}

// Calculate processes sets strictly in order, one repetition at a time.
// Order matters: the rating gap used for each repetition is the one left by
// the previous repetition.
func (c Calculator) Calculate(r1, r2 int, sets []Set) Result {
	res := Result{Rating1: r1, Rating2: r2}
	for _, set := range sets {
		if set.Outcome == Win {
			res.Wins += set.Count
		} else {
			res.Losses += set.Count
		}
		outcome := int(set.Outcome)
		for i := 0; i < set.Count; i++ {
			diff := abs(res.Rating1-res.Rating2) / c.predictionDifference
			// keeps the change positive
			if diff > c.baseRatingChange {
				diff = c.baseRatingChange
			}
			favored := 1
			if res.Rating1 < res.Rating2 {
				favored = -1
			}
			change := c.baseRatingChange + diff*favored*(-outcome) + 1
			res.Rating1 += change * outcome
			res.Rating2 -= change * outcome
		}
	}
	return res
}

// Calculate is a convenience wrapper for one-off calculations.
func Calculate(baseRatingChange, predictionDifference, r1, r2 int, sets []Set) (Result, error) {
	c, err := NewCalculator(baseRatingChange, predictionDifference)
	if err != nil {
		return Result{}, err
	}
	return c.Calculate(r1, r2, sets), nil
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
