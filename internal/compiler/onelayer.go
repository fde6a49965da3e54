package compiler

import "github.com/qcluster/qsim/internal/gate"

// oneLayerCompiler is the shared engine behind SimpleCompiler and
// AdvanceCompiler: it selects a maximal prefix-respecting subset of the
// remaining gates whose combined qubit footprint fits a local-qubit budget.
// maxGates bounds the batch of candidate gate-ids considered per call (2048
// for SimpleCompiler, 512 for AdvanceCompiler, per §9).
type oneLayerCompiler struct {
	numQubits   int
	maxGates    int
	remainGates []gate.Gate
	remain      []int // ascending indices into remainGates still unassigned
}

func newOneLayerCompiler(numQubits, maxGates int, gates []gate.Gate) *oneLayerCompiler {
	c := &oneLayerCompiler{numQubits: numQubits, maxGates: maxGates, remainGates: gates}
	c.resetRemain()
	return c
}

func (c *oneLayerCompiler) resetRemain() {
	c.remain = make([]int, len(c.remainGates))
	for i := range c.remain {
		c.remain[i] = i
	}
}

func (c *oneLayerCompiler) empty() bool {
	return len(c.remain) == 0
}

// removeSelected drops the chosen gate positions from remain. Mirrors the
// original's quirk of never compacting remainGates itself mid-run; once
// remain empties, the outer loop treats that as "done".
func (c *oneLayerCompiler) removeSelected(idx []int) {
	chosen := make(map[int]bool, len(idx))
	for _, x := range idx {
		chosen[x] = true
	}
	out := c.remain[:0]
	for _, x := range c.remain {
		if !chosen[x] {
			out = append(out, x)
		}
	}
	c.remain = out
}

// getGroupOpt runs Pass A (greedy dependency closure per qubit), Pass B
// (maximal cover) and, when enableGlobal, Pass C (diagonal mop-up). full is
// the set of qubits forbidden from entering the group; related holds the
// per-qubit seed masks and is mutated as scratch state during the call.
func (c *oneLayerCompiler) getGroupOpt(full gate.QubitSet, related []gate.QubitSet, enableGlobal bool, localSize int, localQubits int64) []int {
	gateNum := len(c.remain)
	if gateNum > c.maxGates {
		gateNum = c.maxGates
	}
	gateIDs := c.remain[:gateNum]

	cur := make([]idset, c.numQubits)
	for i := range cur {
		cur[i] = newIDSet(c.maxGates)
	}

	for id := 0; id < gateNum; id++ {
		if id%100 == 0 {
			live := false
			for i := 0; i < c.numQubits; i++ {
				if !full.Has(i) {
					live = true
					break
				}
			}
			if !live {
				break
			}
		}
		x := gateIDs[id]
		g := &c.remainGates[x]

		switch {
		case g.IsMCGate():
			blocked := full&gate.QubitSet(g.EncodeQubit) != 0 || full.Has(g.TargetQubit)
			if !blocked {
				t := g.TargetQubit
				newRel := related[t]
				for _, q := range g.ControlQubits {
					newRel |= related[q]
				}
				newRel = NewRelated(newRel, g, localQubits, enableGlobal)
				if newRel.BitCount() <= localSize {
					newCur := cur[t].clone()
					for _, q := range g.ControlQubits {
						newCur = newCur.orInto(cur[q])
					}
					newCur.set(id)
					for _, q := range g.ControlQubits {
						cur[q] = newCur
						related[q] = newRel
					}
					cur[t] = newCur
					related[t] = newRel
					continue
				}
			}
			full = full.With(g.TargetQubit)
			for _, q := range g.ControlQubits {
				full = full.With(q)
			}
		case g.IsTwoQubitGate():
			t1, t2 := int(g.EncodeQubit), g.TargetQubit
			if !full.Has(t1) && !full.Has(t2) {
				newRel := related[t1] | related[t2]
				newRel = NewRelated(newRel, g, localQubits, enableGlobal)
				if newRel.BitCount() <= localSize {
					newCur := cur[t1].clone().orInto(cur[t2])
					newCur.set(id)
					cur[t1] = newCur
					cur[t2] = newCur
					related[t1] = newRel
					related[t2] = newRel
					continue
				}
			}
			full = full.With(t1).With(t2)
		case g.IsControlGate():
			ctl, t := g.ControlQubit, g.TargetQubit
			if !full.Has(ctl) && !full.Has(t) {
				newRel := related[ctl] | related[t]
				newRel = NewRelated(newRel, g, localQubits, enableGlobal)
				if newRel.BitCount() <= localSize {
					newCur := cur[ctl].clone().orInto(cur[t])
					newCur.set(id)
					cur[ctl] = newCur
					cur[t] = newCur
					related[ctl] = newRel
					related[t] = newRel
					continue
				}
			}
			full = full.With(ctl).With(t)
		default: // Single
			t := g.TargetQubit
			if !full.Has(t) {
				cur[t].set(id)
				related[t] = NewRelated(related[t], g, localQubits, enableGlobal)
			}
		}
	}

	// Pass B: maximal cover.
	blocked := make([]bool, c.numQubits)
	selected := newIDSet(c.maxGates)
	var selectedRelated gate.QubitSet
	for {
		mx, best := 0, -1
		for i := 0; i < c.numQubits; i++ {
			if blocked[i] {
				continue
			}
			cnt := cur[i].count()
			if cnt > mx {
				if (selectedRelated | related[i]).BitCount() <= localSize {
					mx, best = cnt, i
				} else {
					blocked[i] = true
				}
			}
		}
		if mx == 0 {
			break
		}
		selected = selected.orInto(cur[best])
		selectedRelated |= related[best]
		blocked[best] = true
		for i := 0; i < c.numQubits; i++ {
			if blocked[i] || !cur[i].any() {
				continue
			}
			if (related[i] | selectedRelated) == selectedRelated {
				selected = selected.orInto(cur[i])
				blocked[i] = true
			} else {
				cur[i] = cur[i].andNot(cur[best])
			}
		}
	}

	if !enableGlobal {
		return collectSelected(selected, gateIDs, gateNum)
	}

	// Pass C: diagonal mop-up.
	for i := range blocked {
		blocked[i] = false
	}
	for id := 0; id < gateNum; id++ {
		if id%100 == 0 && id > 0 {
			live := false
			for i := 0; i < c.numQubits; i++ {
				if !blocked[i] {
					live = true
					break
				}
			}
			if !live {
				break
			}
		}
		if selected.test(id) {
			continue
		}
		x := gateIDs[id]
		g := &c.remainGates[x]
		if g.IsDiagonal() {
			switch {
			case g.IsMCGate():
				avail := !blocked[g.TargetQubit]
				for _, q := range g.ControlQubits {
					avail = avail && !blocked[q]
				}
				if avail {
					selected.set(id)
				} else {
					blocked[g.TargetQubit] = true
					for _, q := range g.ControlQubits {
						blocked[q] = true
					}
				}
			case g.IsTwoQubitGate():
				t1, t2 := int(g.EncodeQubit), g.TargetQubit
				if !blocked[t1] && !blocked[t2] {
					selected.set(id)
				} else {
					blocked[t1] = true
					blocked[t2] = true
				}
			case g.IsControlGate():
				ctl, t := g.ControlQubit, g.TargetQubit
				if !blocked[ctl] && !blocked[t] {
					selected.set(id)
				} else {
					blocked[ctl] = true
					blocked[t] = true
				}
			default:
				if !blocked[g.TargetQubit] {
					selected.set(id)
				}
			}
		} else {
			switch {
			case g.IsMCGate():
				for _, q := range g.ControlQubits {
					blocked[q] = true
				}
			case g.IsTwoQubitGate():
				blocked[int(g.EncodeQubit)] = true
			case g.IsControlGate():
				blocked[g.ControlQubit] = true
			}
			blocked[g.TargetQubit] = true
		}
	}

	return collectSelected(selected, gateIDs, gateNum)
}

func collectSelected(selected idset, gateIDs []int, gateNum int) []int {
	ret := make([]int, 0, gateNum)
	for id := 0; id < gateNum; id++ {
		if selected.test(id) {
			ret = append(ret, gateIDs[id])
		}
	}
	return ret
}
