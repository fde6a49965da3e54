package circuit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcluster/qsim/internal/gate"
)

func TestLoad_DecodesEveryGateShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bell.json")
	body := `{
		"num_qubits": 3,
		"gates": [
			{"name": "H", "type": "single", "target": 0},
			{"name": "RZ", "type": "single", "target": 1, "diagonal": true, "real": [0.5], "imag": [0]},
			{"name": "CX", "type": "control", "target": 1, "control": 0},
			{"name": "SWAP", "type": "two", "target": 2, "encode": 0},
			{"name": "MCX", "type": "mc", "target": 2, "controls": [0, 1]}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	numQubits, gates, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, numQubits)
	require.Len(t, gates, 5)

	assert.Equal(t, gate.Single, gates[0].Type)
	assert.True(t, gates[1].IsDiagonal())
	assert.Equal(t, gate.Control, gates[2].Type)
	assert.Equal(t, 0, gates[2].ControlQubit)
	assert.True(t, gates[3].IsTwoQubitGate())
	assert.True(t, gates[4].IsMCGate())
	assert.Equal(t, []int{0, 1}, gates[4].ControlQubits)
}

func TestLoad_RejectsUnknownGateType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"num_qubits":1,"gates":[{"type":"quantum-foam","target":0}]}`), 0644))

	_, _, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
