package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcluster/qsim/internal/gate"
)

// Scenario 1 (spec.md §8): N=4, G=0, [H(0), H(1), CX(0,1)] -> localSize == N
// is the degenerate one-pass case: a single GateGroup with relatedQubits ==
// 0b0011, gates in original order.
func TestSimpleCompiler_Scenario1(t *testing.T) {
	gates := []gate.Gate{
		gate.NewSingle("H", 0, false),
		gate.NewSingle("H", 1, false),
		gate.NewControl("CX", 0, 1, false),
	}

	c := NewSimpleCompiler(4, 4, true)
	groups := c.Run(gates, 0, 0)

	require.Len(t, groups, 1)
	assert.Equal(t, gate.QubitSet(0b0011), groups[0].RelatedQubits)
	require.Len(t, groups[0].Gates, 3)
	assert.Equal(t, "CX", groups[0].Gates[2].Name)
}

// Scenario 3 (spec.md §8): N=3, G=0, [Rz(0), Rz(1), H(0)], enableGlobal=true.
// Rz is diagonal; all three still land in a single group since localSize ==
// N here too, but the diagonal flag must survive intact.
func TestSimpleCompiler_Scenario3(t *testing.T) {
	gates := []gate.Gate{
		gate.NewSingle("RZ", 0, true, complex(0.5, 0)),
		gate.NewSingle("RZ", 1, true, complex(0.25, 0)),
		gate.NewSingle("H", 0, false),
	}

	c := NewSimpleCompiler(3, 3, true)
	groups := c.Run(gates, 0, 0)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Gates, 3)
	assert.True(t, groups[0].Gates[0].IsDiagonal())
	assert.True(t, groups[0].Gates[1].IsDiagonal())
	assert.False(t, groups[0].Gates[2].IsDiagonal())
}

// A budget below N still lets a lone diagonal gate mop into the same group
// as an unrelated non-diagonal gate (§4.2 Pass C): both gates are covered,
// in original order, by a single call.
func TestSimpleCompiler_DiagonalMopUp(t *testing.T) {
	gates := []gate.Gate{
		gate.NewSingle("H", 0, false),
		gate.NewSingle("RZ", 2, true, complex(0.1, 0)),
	}

	c := NewSimpleCompiler(3, 1, true)
	groups := c.Run(gates, 0, 0)

	total := 0
	for _, g := range groups {
		total += len(g.Gates)
	}
	assert.Equal(t, 2, total, "both gates must be covered across the returned groups")
}

// Budget exhaust (spec.md §8 scenario 5): 100 independent single-qubit
// gates over 10 qubits with localSize == N pack into exactly one group,
// order preserved.
func TestSimpleCompiler_BudgetExhaust(t *testing.T) {
	var gates []gate.Gate
	for i := 0; i < 100; i++ {
		gates = append(gates, gate.NewSingle("H", i%10, false))
	}

	c := NewSimpleCompiler(10, 10, true)
	groups := c.Run(gates, 0, 0)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Gates, 100)
	for i, g := range groups[0].Gates {
		assert.Equal(t, i%10, g.TargetQubit)
	}
}
