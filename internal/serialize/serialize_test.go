package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcluster/qsim/internal/compiler"
	"github.com/qcluster/qsim/internal/gate"
)

func sampleSchedule() compiler.Schedule {
	state := compiler.Identity(4)
	full := compiler.GateGroup{
		Gates: []gate.Gate{
			gate.NewSingle("H", 0, false, complex(0.7, 0), complex(0.7, 0)),
			gate.NewControl("CX", 0, 1, false),
		},
		RelatedQubits: 0b0011,
		Backend:       compiler.PerGate,
	}
	overlap := compiler.GateGroup{
		Gates:         []gate.Gate{gate.NewMC("MCX", []int{0, 1}, 2, false)},
		RelatedQubits: 0b0111,
		Backend:       compiler.BLAS,
	}
	lg := compiler.LocalGroup{
		FullGroups:    []compiler.GateGroup{full},
		OverlapGroups: []compiler.GateGroup{overlap},
		RelatedQubits: 0b0111,
		State:         state,
		A2ACommSize:   16,
		A2AComm: []compiler.CommEntry{
			{Peer: 1, Offset: 0, Count: 8},
			{Peer: 2, Offset: 8, Count: 8},
		},
	}
	return compiler.Schedule{LocalGroups: []compiler.LocalGroup{lg}, FinalState: state}
}

// The wire format round-trips every field it defines bit-for-bit (spec.md
// §8's serialization invariant), with the documented exception of gate Name
// and Diagonal, which the format never carries (see writeGate).
func TestSerializeRoundTrip(t *testing.T) {
	s := sampleSchedule()

	buf, err := Serialize(s, 4)
	require.NoError(t, err)

	got, err := Deserialize(buf, 4)
	require.NoError(t, err)

	require.Len(t, got.LocalGroups, 1)
	lg, want := got.LocalGroups[0], s.LocalGroups[0]

	assert.Equal(t, want.RelatedQubits, lg.RelatedQubits)
	assert.Equal(t, want.State.Layout, lg.State.Layout)
	assert.Equal(t, want.State.Pos, lg.State.Pos)
	assert.Equal(t, want.A2ACommSize, lg.A2ACommSize)
	assert.Equal(t, want.A2AComm, lg.A2AComm)

	require.Len(t, lg.FullGroups, 1)
	assertGateGroupRoundTrip(t, want.FullGroups[0], lg.FullGroups[0])

	require.Len(t, lg.OverlapGroups, 1)
	assertGateGroupRoundTrip(t, want.OverlapGroups[0], lg.OverlapGroups[0])

	assert.Equal(t, got.FinalState.Layout, s.FinalState.Layout)
}

func assertGateGroupRoundTrip(t *testing.T, want, got compiler.GateGroup) {
	t.Helper()
	assert.Equal(t, want.RelatedQubits, got.RelatedQubits)
	assert.Equal(t, want.Backend, got.Backend)
	require.Len(t, got.Gates, len(want.Gates))
	for i := range want.Gates {
		wg, gg := want.Gates[i], got.Gates[i]
		assert.Equal(t, wg.Type, gg.Type)
		assert.Equal(t, wg.TargetQubit, gg.TargetQubit)
		assert.Equal(t, wg.ControlQubit, gg.ControlQubit)
		assert.Equal(t, wg.EncodeQubit, gg.EncodeQubit)
		assert.Equal(t, wg.ControlQubits, gg.ControlQubits)
		for j := 0; j < len(wg.Params) && j < 4; j++ {
			assert.InDelta(t, real(wg.Params[j]), real(gg.Params[j]), 1e-9)
			assert.InDelta(t, imag(wg.Params[j]), imag(gg.Params[j]), 1e-9)
		}
	}
}

func TestDeserialize_RejectsTruncatedBuffer(t *testing.T) {
	_, err := Deserialize([]byte{1, 2, 3}, 4)
	require.Error(t, err)

	_, err = Deserialize([]byte{0xFF, 0xFF, 0xFF, 0xFF}, 4)
	require.Error(t, err)
}
