package compiler

import "github.com/qcluster/qsim/internal/gate"

// Backend tags which execution strategy a GateGroup was assigned to.
type Backend int

const (
	// PerGate launches one kernel per gate with shared-memory coalescing.
	PerGate Backend = iota
	// BLAS multiplies a small dense matrix over a chunk of amplitudes.
	BLAS
)

func (b Backend) String() string {
	if b == BLAS {
		return "BLAS"
	}
	return "PerGate"
}

// GateGroup is an ordered subsequence of gates executable as one kernel
// launch. RelatedQubits is the union of every qubit it touches, expanded per
// the backend-specific rule in newRelated.
type GateGroup struct {
	Gates         []gate.Gate
	RelatedQubits gate.QubitSet
	Backend       Backend
}

// newRelated implements §4.1: under enableGlobal, a diagonal gate's operands
// outside localQubits are pure global phases and need not enter the mask.
// localQubits == -1 means "unrestricted": every operand must enter the mask.
func newRelated(prev gate.QubitSet, g *gate.Gate, localQubits int64, enableGlobal bool) gate.QubitSet {
	if enableGlobal && g.IsDiagonal() && localQubits != -1 {
		required := g.OperandMask() & gate.QubitSet(localQubits)
		return prev | required
	}
	return prev | g.OperandMask()
}

// NewRelated is the exported form used by the OneLayerCompiler's inner loop,
// which must recompute related masks before committing to a tentative gate.
func NewRelated(prev gate.QubitSet, g *gate.Gate, localQubits int64, enableGlobal bool) gate.QubitSet {
	return newRelated(prev, g, localQubits, enableGlobal)
}

// AddGate appends g and folds its operands into RelatedQubits.
func (gg *GateGroup) AddGate(g gate.Gate, localQubits int64, enableGlobal bool) {
	gg.Gates = append(gg.Gates, g)
	gg.RelatedQubits = newRelated(gg.RelatedQubits, &g, localQubits, enableGlobal)
}

// CopyGates returns a deep copy of gg, used when the same gate-group prefix
// is referenced both by a LocalGroup's fullGroups and, after move-back, by
// another group's overlapGroups.
func (gg GateGroup) CopyGates() GateGroup {
	gatesCopy := make([]gate.Gate, len(gg.Gates))
	copy(gatesCopy, gg.Gates)
	return GateGroup{Gates: gatesCopy, RelatedQubits: gg.RelatedQubits, Backend: gg.Backend}
}

// InitState rewires state so that gg.RelatedQubits occupies physical
// positions within the first cuttSize slots, the device transpose kernel's
// working window. Qubits already inside the window are left untouched;
// qubits that need to move in swap places with whichever non-member qubits
// currently occupy the window, preserving every other relative placement.
func (gg GateGroup) InitState(state State, cuttSize int) State {
	next := state.Clone()
	limit := cuttSize
	if limit > len(next.Layout) {
		limit = len(next.Layout)
	}

	present := make(map[int]bool)
	for p := 0; p < limit; p++ {
		if gg.RelatedQubits.Has(next.Layout[p]) {
			present[next.Layout[p]] = true
		}
	}

	var needed []int
	for q := 0; q < len(next.Layout); q++ {
		if gg.RelatedQubits.Has(q) && !present[q] {
			needed = append(needed, q)
		}
	}

	ni := 0
	for p := 0; p < limit && ni < len(needed); p++ {
		if gg.RelatedQubits.Has(next.Layout[p]) {
			continue
		}
		q := needed[ni]
		qp := next.Pos[q]
		next.Layout[p], next.Layout[qp] = next.Layout[qp], next.Layout[p]
		next.Pos[next.Layout[p]] = p
		next.Pos[next.Layout[qp]] = qp
		ni++
	}
	return next
}
