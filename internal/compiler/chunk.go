package compiler

import "github.com/qcluster/qsim/internal/gate"

// ChunkCompiler is an alternative to SimpleCompiler/AdvanceCompiler for
// "chunked" execution: a block of chunkSize low-order qubits always stays
// resident, and each group swaps exactly one high-order local qubit for
// whichever gate target forced the group boundary.
type ChunkCompiler struct {
	NumQubits int
	LocalSize int
	ChunkSize int
}

func NewChunkCompiler(numQubits, localSize, chunkSize int) *ChunkCompiler {
	return &ChunkCompiler{NumQubits: numQubits, LocalSize: localSize, ChunkSize: chunkSize}
}

// Run proceeds linearly over gates. A non-diagonal gate whose target is
// outside the current local set closes the current group, then evicts the
// highest-numbered local qubit above ChunkSize that no gate in the lookahead
// window still needs, swapping the closing gate's target in its place.
func (c *ChunkCompiler) Run(gates []gate.Gate) LocalGroup {
	locals := make(map[int]bool, c.LocalSize)
	for i := 0; i < c.LocalSize; i++ {
		locals[i] = true
	}

	relatedFromLocals := func() gate.QubitSet {
		var mask gate.QubitSet
		for q := range locals {
			mask = mask.With(q)
		}
		return mask
	}

	var lg LocalGroup
	cur := GateGroup{}

	for i := 0; i < len(gates); i++ {
		g := gates[i]
		if g.IsDiagonal() || locals[g.TargetQubit] {
			cur.AddGate(g, -1, true)
			continue
		}

		newRelated := relatedFromLocals()
		cur.RelatedQubits = newRelated
		lg.RelatedQubits |= newRelated
		lg.FullGroups = append(lg.FullGroups, cur)

		cur = GateGroup{}
		cur.AddGate(g, -1, true)

		candidates := make(map[int]bool)
		for q := c.ChunkSize + 1; q < c.NumQubits; q++ {
			if locals[q] {
				candidates[q] = true
			}
		}
		for j := i + 1; j < len(gates) && len(candidates) > 1; j++ {
			if !gates[j].IsDiagonal() {
				delete(candidates, gates[j].TargetQubit)
			}
		}

		toEvict := highestKey(candidates)
		delete(locals, toEvict)
		locals[g.TargetQubit] = true
	}

	newRelated := relatedFromLocals()
	cur.RelatedQubits = newRelated
	lg.RelatedQubits |= newRelated
	lg.FullGroups = append(lg.FullGroups, cur)
	return lg
}

func highestKey(m map[int]bool) int {
	best, first := 0, true
	for k := range m {
		if first || k > best {
			best, first = k, false
		}
	}
	return best
}
