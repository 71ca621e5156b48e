package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/flipgraph/state"
)

func TestUpdateLimit(t *testing.T) {
	t.Run("KeepGlobalBudget", func(t *testing.T) {
		assert.Equal(t, uint64(1000), updateLimit(400, 0, 0, 12, 6, 3, 1000))
	})

	t.Run("SpreadRemaining", func(t *testing.T) {
		// One orbit above target: the whole remaining budget.
		assert.Equal(t, uint64(1_000_000), updateLimit(0, 1, 0, 50, 47, 3, 1_000_000))
		// Three orbits above target: a third each.
		assert.Equal(t, uint64(100+300), updateLimit(100, 1, 0, 15, 6, 3, 1000))
	})

	t.Run("NoDeadline", func(t *testing.T) {
		assert.Equal(t, uint64(500+1000), updateLimit(500, 2, 0, 12, 6, 3, 1000))
	})

	t.Run("SplitAboveThreshold", func(t *testing.T) {
		// termination=5, split=50: half the budget spread until rank 5.
		assert.Equal(t, uint64(100+(500-100)/2), updateLimit(100, 5, 50, 11, 2, 3, 1000))
	})

	t.Run("SplitBelowThreshold", func(t *testing.T) {
		assert.Equal(t, uint64(100+(1000-100)/1), updateLimit(100, 5, 50, 5, 2, 3, 1000))
	})
}

func TestSchedulePlusRange(t *testing.T) {
	snap := &state.Snapshot{
		NoMuls:    6,
		Symm:      3,
		Seed:      7,
		FlipLimit: 1000,
		PlusLimit: -50,
		MaxPlus:   100,
		Muls:      []uint64{1, 2, 3, 1, 5, 6},
	}
	s := New(snap)
	s.flips = 1000

	seen := map[uint64]bool{}
	for i := 0; i < 1000; i++ {
		s.schedulePlus()
		gap := s.plusby - s.flips
		assert.GreaterOrEqual(t, gap, uint64(3))
		assert.LessOrEqual(t, gap, uint64(3+2*50-1))
		seen[gap] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestSchedulePlusFixedGap(t *testing.T) {
	snap := &state.Snapshot{
		NoMuls:    6,
		Symm:      3,
		Seed:      7,
		FlipLimit: 1000,
		PlusLimit: 40,
		MaxPlus:   100,
		Muls:      []uint64{1, 2, 3, 1, 5, 6},
	}
	s := New(snap)
	s.flips = 300
	s.schedulePlus()
	assert.Equal(t, uint64(340), s.plusby)

	// At or above maxplus the schedule moves past the end of the run.
	s.achieved = 100
	s.schedulePlus()
	assert.Equal(t, uint64(1000*1007), s.plusby)
}
