package compiler

// FillLocals extends every full group's RelatedQubits, in place, by the
// lowest-indexed unused qubits until it has exactly numLocalQubits bits set
// — the group then occupies every local slot, even qubits its gates never
// actually touch.
func FillLocals(lg *LocalGroup, numLocalQubits int) {
	for gi := range lg.FullGroups {
		gg := &lg.FullGroups[gi]
		related := gg.RelatedQubits
		numRelated := related.BitCount()
		if numRelated > numLocalQubits {
			panic("compiler: group relatedQubits exceeds local qubit budget")
		}
		for i := 0; numRelated < numLocalQubits; i++ {
			if !related.Has(i) {
				related = related.With(i)
				numRelated++
			}
		}
		gg.RelatedQubits = related
	}
}
