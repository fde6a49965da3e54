package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcluster/qsim/internal/gate"
)

// ChunkSize=1 keeps qubits {0,1} permanently resident; LocalSize=3 leaves one
// swappable slot. A targets the initially local qubit 2 and joins the first
// group; B and C each target a qubit outside the current local set, forcing a
// group boundary and an eviction.
func TestChunkCompiler_EvictsAndCoversAllGates(t *testing.T) {
	gates := []gate.Gate{
		gate.NewSingle("A", 2, false),
		gate.NewSingle("B", 3, false),
		gate.NewSingle("C", 2, false),
	}

	c := NewChunkCompiler(6, 3, 1)
	lg := c.Run(gates)

	require.Len(t, lg.FullGroups, 3)
	assert.Equal(t, gate.QubitSet(0b000111), lg.FullGroups[0].RelatedQubits)
	assert.Equal(t, gate.QubitSet(0b001011), lg.FullGroups[1].RelatedQubits)
	assert.Equal(t, gate.QubitSet(0b000111), lg.FullGroups[2].RelatedQubits)
	assert.Equal(t, gate.QubitSet(0b001111), lg.RelatedQubits)

	total := 0
	for _, gg := range lg.FullGroups {
		total += len(gg.Gates)
	}
	assert.Equal(t, len(gates), total)

	assert.Equal(t, "A", lg.FullGroups[0].Gates[0].Name)
	assert.Equal(t, "B", lg.FullGroups[1].Gates[0].Name)
	assert.Equal(t, "C", lg.FullGroups[2].Gates[0].Name)
}

// A diagonal gate never forces a group boundary, regardless of its target.
func TestChunkCompiler_DiagonalGateNeverEvicts(t *testing.T) {
	gates := []gate.Gate{
		gate.NewSingle("A", 0, false),
		gate.NewSingle("RZ", 5, true, complex(0.2, 0)),
		gate.NewSingle("B", 1, false),
	}

	c := NewChunkCompiler(6, 3, 1)
	lg := c.Run(gates)

	require.Len(t, lg.FullGroups, 1)
	require.Len(t, lg.FullGroups[0].Gates, 3)
}
