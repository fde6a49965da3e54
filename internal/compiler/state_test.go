package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcluster/qsim/internal/gate"
)

func TestIdentityAndClone(t *testing.T) {
	s := Identity(4)
	assert.Equal(t, []int{0, 1, 2, 3}, s.Layout)
	assert.Equal(t, []int{0, 1, 2, 3}, s.Pos)

	c := s.Clone()
	c.Layout[0] = 99
	assert.Equal(t, 0, s.Layout[0], "Clone must not alias the original slice")
}

// ToPhysical/ToLogical are mutual inverses for every index under any
// permutation (spec.md §8's permutation invariant).
func TestToPhysicalToLogicalRoundTrip(t *testing.T) {
	s := State{Layout: []int{2, 0, 3, 1}, Pos: []int{1, 3, 0, 2}}
	for idx := uint64(0); idx < 16; idx++ {
		phys := s.ToPhysical(idx)
		assert.Equal(t, idx, s.ToLogical(phys), "ToLogical must invert ToPhysical for idx=%d", idx)
	}
}

func TestInitFirstGroupState_LocalThenGlobal(t *testing.T) {
	s := InitFirstGroupState(5, []int{4, 1})
	// Locals (ascending, excluding {4,1}): 0, 2, 3. Globals as given: 4, 1.
	assert.Equal(t, []int{0, 2, 3, 4, 1}, s.Layout)
	for p, q := range s.Layout {
		assert.Equal(t, p, s.Pos[q])
	}
}

func TestInitState_ReusesPreviousLocalPlacement(t *testing.T) {
	prev := InitFirstGroupState(5, []int{4})
	// prev.Layout = [0,1,2,3,4]; qubit 4 is the sole global.
	next := InitState(prev, 5, []int{3}, 0, gate.QubitSet(0), 1)

	// The new global is qubit 3; qubit 4 returns to the local region and must
	// reuse its old physical slot ordering among the remaining locals.
	require.Len(t, next.Layout, 5)
	assert.Equal(t, 3, next.Layout[4], "the sole global slot holds the new global qubit")
	seen := make(map[int]bool)
	for _, q := range next.Layout {
		assert.False(t, seen[q], "qubit %d placed twice", q)
		seen[q] = true
	}
	for p, q := range next.Layout {
		assert.Equal(t, p, next.Pos[q])
	}
}

func TestInitStateInplace_MatchesInitStateWithNoOverlapRelated(t *testing.T) {
	prev := InitFirstGroupState(4, []int{3})
	a := InitState(prev, 4, []int{2}, 0, gate.QubitSet(0), 1)
	b := InitStateInplace(prev, 4, []int{2}, 0, 1)
	assert.Equal(t, a.Layout, b.Layout)
	assert.Equal(t, a.Pos, b.Pos)
}
