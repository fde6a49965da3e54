package compiler

import "github.com/qcluster/qsim/internal/gate"

// Overlap holds the gates move-back hoisted from the tail of the previous
// full group into the head of this one, plus their combined RelatedQubits.
// Overlap[0] is always empty: the first group has no predecessor.
type Overlap struct {
	Gates         []gate.Gate
	RelatedQubits gate.QubitSet
}

// MoveToNext runs the move-back optimizer over lg.FullGroups in place: for
// each adjacent pair it searches the earlier group's gates in reverse for a
// commuting suffix that can run instead at the head of the later group,
// removes that suffix from the earlier group, and returns it as the later
// group's overlap work.
//
// disableOverlap mirrors the ENABLE_OVERLAP build switch: when set, every
// entry comes back empty and fullGroups is untouched.
func MoveToNext(numQubits, globalBit int, enableGlobal, disableOverlap bool, lg *LocalGroup) []Overlap {
	result := make([]Overlap, len(lg.FullGroups))
	if disableOverlap || len(lg.FullGroups) == 0 {
		return result
	}

	backLocalSize := numQubits - 2*globalBit

	for id := 1; id < len(lg.FullGroups); id++ {
		prev := &lg.FullGroups[id-1]
		if prev.RelatedQubits == 0 {
			continue
		}

		reversed := reverseGates(prev.Gates)
		reversedSelected, related := selectOverlapPrefix(
			numQubits, backLocalSize, enableGlobal, reversed,
			prev.RelatedQubits, lg.FullGroups[id].RelatedQubits,
		)
		if len(reversedSelected) == 0 {
			continue
		}

		removeAt := make(map[int]bool, len(reversedSelected))
		n := len(prev.Gates)
		removedGates := make([]gate.Gate, len(reversedSelected))
		for i, ridx := range reversedSelected {
			orig := n - 1 - ridx
			removeAt[orig] = true
			removedGates[len(reversedSelected)-1-i] = prev.Gates[orig]
		}

		prev.Gates = dropIndices(prev.Gates, removeAt)
		result[id] = Overlap{Gates: removedGates, RelatedQubits: related}
		lg.FullGroups[id].RelatedQubits |= related
	}
	return result
}

// selectOverlapPrefix mirrors SimpleCompiler.Run's one-group mode
// (whiteList != 0) but returns the selected gates' positions in reversed
// instead of value copies, so the caller can remove exactly those gates from
// the original slice even when two gates are identical in every field
// except Params (e.g. two parameterized rotations on the same qubit).
func selectOverlapPrefix(numQubits, localSize int, enableGlobal bool, reversed []gate.Gate, whiteList, required gate.QubitSet) ([]int, gate.QubitSet) {
	oneLayer := newOneLayerCompiler(numQubits, simpleMaxGates, reversed)

	localQubits := int64(whiteList)
	full := ^whiteList & fullMask(numQubits)

	related := make([]gate.QubitSet, numQubits)
	for q := range related {
		related[q] = required
	}

	selected := oneLayer.getGroupOpt(full, related, enableGlobal, localSize, localQubits)

	var mask gate.QubitSet
	for _, idx := range selected {
		mask = newRelated(mask, &reversed[idx], localQubits, enableGlobal)
	}
	return selected, mask
}

func reverseGates(gates []gate.Gate) []gate.Gate {
	out := make([]gate.Gate, len(gates))
	for i, g := range gates {
		out[len(gates)-1-i] = g
	}
	return out
}

// dropIndices returns gates with every index in remove excluded, preserving
// relative order of what remains.
func dropIndices(gates []gate.Gate, remove map[int]bool) []gate.Gate {
	if len(remove) == 0 {
		return gates
	}
	out := make([]gate.Gate, 0, len(gates)-len(remove))
	for i, g := range gates {
		if remove[i] {
			continue
		}
		out = append(out, g)
	}
	return out
}
