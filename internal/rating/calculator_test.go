package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		r1, r2   int
		sets     []Set
		expected Result
	}{
		{
			name:     "even ratings single win",
			r1:       2000,
			r2:       2000,
			sets:     []Set{{Outcome: Win, Count: 1}},
			expected: Result{Rating1: 2026, Rating2: 1974, Wins: 1, Losses: 0},
		},
		{
			name:     "even ratings single loss",
			r1:       2000,
			r2:       2000,
			sets:     []Set{{Outcome: Loss, Count: 1}},
			expected: Result{Rating1: 1974, Rating2: 2026, Wins: 0, Losses: 1},
		},
		{
			name:     "favorite wins twice then loses",
			r1:       2100,
			r2:       2000,
			sets:     []Set{{Outcome: Win, Count: 2}, {Outcome: Loss, Count: 1}},
			expected: Result{Rating1: 2110, Rating2: 1990, Wins: 2, Losses: 1},
		},
		{
			name:     "favorite loses then wins twice",
			r1:       2100,
			r2:       2000,
			sets:     []Set{{Outcome: Loss, Count: 1}, {Outcome: Win, Count: 2}},
			expected: Result{Rating1: 2118, Rating2: 1982, Wins: 2, Losses: 1},
		},
		{
			name:     "clamped gap favorite win",
			r1:       3000,
			r2:       1000,
			sets:     []Set{{Outcome: Win, Count: 1}},
			expected: Result{Rating1: 3001, Rating2: 999, Wins: 1},
		},
		{
			name:     "clamped gap upset",
			r1:       1000,
			r2:       3000,
			sets:     []Set{{Outcome: Win, Count: 1}},
			expected: Result{Rating1: 1051, Rating2: 2949, Wins: 1},
		},
		{
			name:     "no sets",
			r1:       1500,
			r2:       1600,
			expected: Result{Rating1: 1500, Rating2: 1600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Calculate(25, 25, tt.r1, tt.r2, tt.sets)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res)
		})
	}
}

func TestCalculate_OrderSensitive(t *testing.T) {
	calc, err := NewCalculator(25, 25)
	require.NoError(t, err)

	a := calc.Calculate(2100, 2000, []Set{{Outcome: Win, Count: 2}, {Outcome: Loss, Count: 1}})
	b := calc.Calculate(2100, 2000, []Set{{Outcome: Loss, Count: 1}, {Outcome: Win, Count: 2}})

	assert.NotEqual(t, a.Rating1, b.Rating1)
	assert.Equal(t, a.Wins, b.Wins)
	assert.Equal(t, a.Losses, b.Losses)
}

func TestCalculate_WinsAlwaysMoveRatings(t *testing.T) {
	calc, err := NewCalculator(25, 25)
	require.NoError(t, err)

	starts := [][2]int{{2000, 2000}, {2500, 1500}, {1500, 2500}, {0, 10000}, {10000, 0}}
	for _, start := range starts {
		r1, r2 := start[0], start[1]
		for i := 0; i < 50; i++ {
			res := calc.Calculate(r1, r2, []Set{{Outcome: Win, Count: 1}})
			assert.Greater(t, res.Rating1, r1, "winner should gain from %d/%d", r1, r2)
			assert.Less(t, res.Rating2, r2, "loser should drop from %d/%d", r1, r2)
			// zero-sum per repetition
			assert.Equal(t, r1+r2, res.Rating1+res.Rating2)
			r1, r2 = res.Rating1, res.Rating2
		}
	}
}

func TestCalculate_RepeatCountMatchesRepeatedSets(t *testing.T) {
	calc, err := NewCalculator(25, 25)
	require.NoError(t, err)

	grouped := calc.Calculate(2040, 1960, []Set{{Outcome: Loss, Count: 3}})
	split := calc.Calculate(2040, 1960, []Set{{Outcome: Loss, Count: 1}, {Outcome: Loss, Count: 1}, {Outcome: Loss, Count: 1}})
	assert.Equal(t, grouped, split)
	assert.Equal(t, 3, grouped.Losses)
}

func TestNewCalculator_InvalidPredictionDifference(t *testing.T) {
	for _, pd := range []int{0, -1, -25} {
		_, err := NewCalculator(25, pd)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)
	}

	_, err := Calculate(25, 0, 2000, 2000, []Set{{Outcome: Win, Count: 1}})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 3, FloorDiv(7, 2))
	assert.Equal(t, -4, FloorDiv(-7, 2))
	assert.Equal(t, -3, FloorDiv(-6, 2))
	assert.Equal(t, 0, FloorDiv(0, 3))
}
