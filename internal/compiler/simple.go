package compiler

import "github.com/qcluster/qsim/internal/gate"

// simpleMaxGates bounds the candidate batch getGroupOpt considers per call.
const simpleMaxGates = 2048

// SimpleCompiler iterates OneLayerCompiler over a residual gate set until it
// empties out, packing each pass's selection into one GateGroup. It also
// serves the move-back optimizer's "one-group" mode via a nonzero whiteList.
type SimpleCompiler struct {
	NumQubits    int
	LocalSize    int
	EnableGlobal bool
}

func NewSimpleCompiler(numQubits, localSize int, enableGlobal bool) *SimpleCompiler {
	return &SimpleCompiler{NumQubits: numQubits, LocalSize: localSize, EnableGlobal: enableGlobal}
}

// Run packs gates into full groups in original order. whiteList, if nonzero,
// pins the allowable qubit set to its bits and the loop terminates after the
// first group is extracted. required seeds every related[q].
func (c *SimpleCompiler) Run(gates []gate.Gate, whiteList, required gate.QubitSet) []GateGroup {
	if c.LocalSize == c.NumQubits {
		gg := GateGroup{Backend: PerGate}
		for _, g := range gates {
			gg.AddGate(g, -1, c.EnableGlobal)
		}
		return []GateGroup{gg}
	}

	oneLayer := newOneLayerCompiler(c.NumQubits, simpleMaxGates, gates)

	var localQubits int64 = -1
	if whiteList != 0 {
		localQubits = int64(whiteList)
	}

	var groups []GateGroup
	for !oneLayer.empty() {
		full := gate.QubitSet(0)
		if whiteList != 0 {
			full = ^whiteList & fullMask(c.NumQubits)
		}
		related := make([]gate.QubitSet, c.NumQubits)
		for q := range related {
			related[q] = required
		}

		selected := oneLayer.getGroupOpt(full, related, c.EnableGlobal, c.LocalSize, localQubits)
		if len(selected) == 0 {
			break
		}

		gg := GateGroup{Backend: PerGate}
		for _, idx := range selected {
			gg.AddGate(oneLayer.remainGates[idx], localQubits, c.EnableGlobal)
		}
		groups = append(groups, gg)
		oneLayer.removeSelected(selected)

		if whiteList != 0 {
			break
		}
	}
	return groups
}

func fullMask(numQubits int) gate.QubitSet {
	if numQubits >= 64 {
		return ^gate.QubitSet(0)
	}
	return gate.QubitSet(1)<<uint(numQubits) - 1
}
