package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcluster/qsim/internal/gate"
)

// fixedCostEval reproduces the "tests stub it with fixed costs" evaluator
// described in spec.md §9, one perGate/BLAS microsecond cost per call.
type fixedCostEval struct {
	perGateUs float64
	blasUs    float64
}

func (e fixedCostEval) PerfPerGate(numLocalQubits int, types []gate.Type) float64 {
	return e.perGateUs
}

func (e fixedCostEval) PerfBLAS(numLocalQubits, matSize int) float64 {
	return e.blasUs
}

func totalGates(lg LocalGroup) int {
	n := 0
	for _, gg := range lg.FullGroups {
		n += len(gg.Gates)
	}
	return n
}

func TestAdvanceCompiler_PerGateOnlyCoversAllGates(t *testing.T) {
	gates := []gate.Gate{
		gate.NewSingle("H", 0, false),
		gate.NewSingle("H", 1, false),
		gate.NewControl("CX", 0, 1, false),
	}
	c := NewAdvanceCompiler(4, 4, 0, true, 0, fixedCostEval{perGateUs: 1, blasUs: 100})
	lg, _ := c.Run(gates, Identity(4), true, false, 4, 4, 4)

	require.NotEmpty(t, lg.FullGroups)
	for _, gg := range lg.FullGroups {
		assert.Equal(t, PerGate, gg.Backend)
	}
	assert.Equal(t, len(gates), totalGates(lg))
}

func TestAdvanceCompiler_BLASOnlyCoversAllGates(t *testing.T) {
	gates := []gate.Gate{
		gate.NewSingle("H", 0, false),
		gate.NewSingle("H", 1, false),
		gate.NewControl("CX", 0, 1, false),
	}
	c := NewAdvanceCompiler(4, 4, 0, false, 0, fixedCostEval{perGateUs: 100, blasUs: 1})
	lg, _ := c.Run(gates, Identity(4), false, true, 4, 4, 4)

	require.NotEmpty(t, lg.FullGroups)
	for _, gg := range lg.FullGroups {
		assert.Equal(t, BLAS, gg.Backend)
	}
	assert.Equal(t, len(gates), totalGates(lg))
}

// When both backends are enabled, AdvanceCompiler picks whichever the
// Evaluator scores as cheaper per gate; a heavily BLAS-favoring cost model
// must produce at least one BLAS group.
func TestAdvanceCompiler_PrefersCheaperBackendPerEvaluator(t *testing.T) {
	gates := []gate.Gate{
		gate.NewSingle("H", 0, false),
		gate.NewSingle("H", 1, false),
		gate.NewSingle("H", 2, false),
		gate.NewControl("CX", 0, 1, false),
		gate.NewControl("CX", 1, 2, false),
	}
	c := NewAdvanceCompiler(4, 4, 0, true, 0, fixedCostEval{perGateUs: 1000, blasUs: 1})
	lg, _ := c.Run(gates, Identity(4), true, true, 4, 4, 4)

	require.NotEmpty(t, lg.FullGroups)
	sawBLAS := false
	for _, gg := range lg.FullGroups {
		if gg.Backend == BLAS {
			sawBLAS = true
		}
	}
	assert.True(t, sawBLAS, "a much cheaper BLAS cost should win at least one group")
	assert.Equal(t, len(gates), totalGates(lg))
}

func TestAdvanceCompiler_PanicsWithoutABackend(t *testing.T) {
	c := NewAdvanceCompiler(4, 4, 0, true, 0, fixedCostEval{})
	assert.Panics(t, func() {
		c.Run([]gate.Gate{gate.NewSingle("H", 0, false)}, Identity(4), false, false, 4, 4, 4)
	})
}
