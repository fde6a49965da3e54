package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcluster/qsim/internal/compiler"
	"github.com/qcluster/qsim/internal/gate"
)

func TestFake_LaunchPerGateGroup_PauliXFlipsTarget(t *testing.T) {
	f := NewFake(2)
	x := gate.NewSingle("X", 0, false, 0, 1, 1, 0)

	err := f.LaunchPerGateGroup(context.Background(), compiler.GateGroup{Gates: []gate.Gate{x}}, compiler.State{}, 0, 2)
	require.NoError(t, err)

	amp01, _ := f.GetAmp(context.Background(), 0, 1) // |01>
	amp00, _ := f.GetAmp(context.Background(), 0, 0) // |00>
	assert.Equal(t, complex128(1), amp01)
	assert.Equal(t, complex128(0), amp00)
}

func TestFake_MCGate_OnlyFiresWhenAllControlsSet(t *testing.T) {
	f := NewFake(3)
	f.Amps[0b011] = 1 // controls 0,1 set, target 2 is 0
	f.Amps[0] = 0

	toffoliX := gate.NewMC("CCX", []int{0, 1}, 2, false, 0, 1, 1, 0)
	err := f.LaunchPerGateGroup(context.Background(), compiler.GateGroup{Gates: []gate.Gate{toffoliX}}, compiler.State{}, 0, 3)
	require.NoError(t, err)

	amp111, _ := f.GetAmp(context.Background(), 0, 0b111)
	amp011, _ := f.GetAmp(context.Background(), 0, 0b011)
	assert.Equal(t, complex128(1), amp111, "controls 0,1 set -> target flips")
	assert.Equal(t, complex128(0), amp011)
}

func TestFake_InitState_RejectsMismatchedQubitCount(t *testing.T) {
	f := NewFake(3)
	assert.Error(t, f.InitState(context.Background(), 4))
	assert.NoError(t, f.InitState(context.Background(), 3))
}

func TestFake_GetAmp_RejectsOutOfRangeIndex(t *testing.T) {
	f := NewFake(2)
	_, err := f.GetAmp(context.Background(), 0, 4)
	assert.Error(t, err)
}
