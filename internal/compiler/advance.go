package compiler

import (
	"fmt"
	"math"

	"github.com/qcluster/qsim/internal/gate"
)

// advanceMaxGates bounds the candidate batch getGroupOpt considers per call.
const advanceMaxGates = 512

// DefaultCoalesceGlobal is the number of leading local qubits the per-gate
// kernel needs held together for coalesced device memory access, used
// whenever a caller doesn't override it via scheduler.Config.CoalesceGlobal.
const DefaultCoalesceGlobal = 5

// maxCompilerIterations is the correctness trip-wire from §5: any compiler
// inner loop that runs this many outer iterations on well-formed input
// indicates a bug, not slow convergence.
const maxCompilerIterations = 1000

// AdvanceCompiler packs a group's gates with per-group backend selection
// between a per-gate kernel and a small dense-matrix BLAS multiply, guided
// by an Evaluator cost model.
type AdvanceCompiler struct {
	NumQubits      int
	LocalQubits    int64
	BlasForbid     gate.QubitSet
	EnableGlobal   bool
	GlobalBit      int
	Eval           Evaluator
	CoalesceGlobal int
}

func NewAdvanceCompiler(numQubits int, localQubits int64, blasForbid gate.QubitSet, enableGlobal bool, globalBit int, eval Evaluator) *AdvanceCompiler {
	return &AdvanceCompiler{
		NumQubits:      numQubits,
		LocalQubits:    localQubits,
		BlasForbid:     blasForbid,
		EnableGlobal:   enableGlobal,
		GlobalBit:      globalBit,
		Eval:           eval,
		CoalesceGlobal: DefaultCoalesceGlobal,
	}
}

// Run packs gates into groups, returning the resulting LocalGroup and the
// State after the last group's device-local rewiring.
func (c *AdvanceCompiler) Run(gates []gate.Gate, state State, usePerGate, useBLAS bool, perGateSize, blasSize, cuttSize int) (LocalGroup, State) {
	if !usePerGate && !useBLAS {
		panic("compiler: AdvanceCompiler requires usePerGate or useBLAS")
	}

	oneLayer := newOneLayerCompiler(c.NumQubits, advanceMaxGates, gates)
	var lg LocalGroup

	fillRelated := func() ([]gate.QubitSet, gate.QubitSet) {
		var mask gate.QubitSet
		for j := 0; j < c.CoalesceGlobal && j < len(state.Layout); j++ {
			mask = mask.With(state.Layout[j])
		}
		related := make([]gate.QubitSet, c.NumQubits)
		for i := range related {
			related[i] = mask
		}
		return related, mask
	}

	cnt := 0
	for !oneLayer.empty() {
		cnt++
		if cnt > maxCompilerIterations {
			panic(fmt.Sprintf("compiler: AdvanceCompiler exceeded %d outer iterations", maxCompilerIterations))
		}

		var ggIdx []int
		var backend Backend
		var cacheRelated gate.QubitSet

		switch {
		case usePerGate && useBLAS:
			related, mask := fillRelated()
			cacheRelated = mask
			ggIdx = oneLayer.getGroupOpt(0, related, true, perGateSize, -1)
			backend = PerGate

			bestEff := math.Inf(1)
			if len(ggIdx) > 0 {
				types := make([]gate.Type, len(ggIdx))
				for i, x := range ggIdx {
					types[i] = oneLayer.remainGates[x].Type
				}
				bestEff = c.Eval.PerfPerGate(c.NumQubits-c.GlobalBit, types) / float64(len(ggIdx))
			}

			for matSize := 4; matSize < 8; matSize++ {
				blasRelated := make([]gate.QubitSet, c.NumQubits)
				idx := oneLayer.getGroupOpt(c.BlasForbid, blasRelated, false, matSize, int64(gate.QubitSet(c.LocalQubits)|c.BlasForbid))
				if len(idx) == 0 {
					continue
				}
				eff := c.Eval.PerfBLAS(c.NumQubits-c.GlobalBit, matSize) / float64(len(idx))
				if eff < bestEff {
					ggIdx = idx
					backend = BLAS
					bestEff = eff
				}
			}
		case usePerGate && !useBLAS:
			related, mask := fillRelated()
			cacheRelated = mask
			ggIdx = oneLayer.getGroupOpt(0, related, c.EnableGlobal, perGateSize, -1)
			backend = PerGate
		case !usePerGate && useBLAS:
			related := make([]gate.QubitSet, c.NumQubits)
			ggIdx = oneLayer.getGroupOpt(c.BlasForbid, related, false, blasSize, int64(gate.QubitSet(c.LocalQubits)|c.BlasForbid))
			backend = BLAS
		}

		gg := GateGroup{Backend: backend}
		if backend == PerGate {
			for _, x := range ggIdx {
				gg.AddGate(oneLayer.remainGates[x], -1, c.EnableGlobal)
			}
			gg.RelatedQubits |= cacheRelated
		} else {
			for _, x := range ggIdx {
				gg.AddGate(oneLayer.remainGates[x], c.LocalQubits, false)
			}
		}
		gg.Backend = backend

		state = gg.InitState(state, cuttSize)
		oneLayer.removeSelected(ggIdx)
		lg.RelatedQubits |= gg.RelatedQubits
		lg.FullGroups = append(lg.FullGroups, gg)
	}
	return lg, state
}
