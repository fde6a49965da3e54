package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcluster/qsim/internal/gate"
)

func TestFillLocals_PadsToExactBudget(t *testing.T) {
	lg := LocalGroup{FullGroups: []GateGroup{
		{RelatedQubits: 0b0101}, // qubits 0, 2 -> 2 bits
	}}

	FillLocals(&lg, 4)

	require.Len(t, lg.FullGroups, 1)
	assert.Equal(t, 4, lg.FullGroups[0].RelatedQubits.BitCount())
	// Lowest-indexed unused qubits (1, then 3) fill the remaining slots.
	assert.Equal(t, gate.QubitSet(0b1111), lg.FullGroups[0].RelatedQubits)
}

func TestFillLocals_Idempotent(t *testing.T) {
	lg := LocalGroup{FullGroups: []GateGroup{{RelatedQubits: 0b001}}}

	FillLocals(&lg, 3)
	first := lg.FullGroups[0].RelatedQubits

	FillLocals(&lg, 3)
	assert.Equal(t, first, lg.FullGroups[0].RelatedQubits)
}

func TestFillLocals_PanicsWhenOverBudget(t *testing.T) {
	lg := LocalGroup{FullGroups: []GateGroup{{RelatedQubits: 0b1111}}}
	assert.Panics(t, func() { FillLocals(&lg, 2) })
}
