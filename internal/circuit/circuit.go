// Package circuit is the JSON front-end stand-in named in spec.md §1 as an
// external collaborator ("the circuit front-end ... gate parsing"). It only
// exists so cmd/qsim-compile has something to read: gate *semantics*
// (matrix construction, named-gate tables) are not this module's concern,
// so a gate's Params travel through verbatim as raw complex entries.
package circuit

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/qcluster/qsim/internal/gate"
)

// GateJSON is the wire shape of one gate line in a circuit file. Type is one
// of "single", "control", "two", "mc"; Controls is only read for "mc".
type GateJSON struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Target   int       `json:"target"`
	Control  int       `json:"control,omitempty"`
	Encode   int       `json:"encode,omitempty"`
	Controls []int     `json:"controls,omitempty"`
	Diagonal bool      `json:"diagonal,omitempty"`
	Real     []float64 `json:"real,omitempty"`
	Imag     []float64 `json:"imag,omitempty"`
}

// CircuitJSON is the top-level file shape: a qubit count and an ordered gate
// list, matching the corpus convention of a flat JSON problem file (compare
// the teacher repo's ProblemJSON in the pre-transform io.go).
type CircuitJSON struct {
	NumQubits int        `json:"num_qubits"`
	Gates     []GateJSON `json:"gates"`
}

// Load reads and parses a circuit file, returning its qubit count and the
// decoded gate list in file order.
func Load(filename string) (int, []gate.Gate, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return 0, nil, fmt.Errorf("circuit: reading %s: %w", filename, err)
	}

	var cj CircuitJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return 0, nil, fmt.Errorf("circuit: parsing %s: %w", filename, err)
	}

	gates := make([]gate.Gate, len(cj.Gates))
	for i, gj := range cj.Gates {
		g, err := decodeGate(gj)
		if err != nil {
			return 0, nil, fmt.Errorf("circuit: gate %d: %w", i, err)
		}
		gates[i] = g
	}
	return cj.NumQubits, gates, nil
}

func decodeGate(gj GateJSON) (gate.Gate, error) {
	params := decodeParams(gj.Real, gj.Imag)

	switch gj.Type {
	case "single":
		return gate.NewSingle(gj.Name, gj.Target, gj.Diagonal, params...), nil
	case "control":
		return gate.NewControl(gj.Name, gj.Control, gj.Target, gj.Diagonal, params...), nil
	case "two":
		return gate.NewTwoQubit(gj.Name, gj.Encode, gj.Target, gj.Diagonal, params...), nil
	case "mc":
		return gate.NewMC(gj.Name, gj.Controls, gj.Target, gj.Diagonal, params...), nil
	default:
		return gate.Gate{}, fmt.Errorf("unknown gate type %q", gj.Type)
	}
}

func decodeParams(real, imag []float64) []complex128 {
	n := len(real)
	if len(imag) > n {
		n = len(imag)
	}
	if n == 0 {
		return nil
	}
	params := make([]complex128, n)
	for i := range params {
		var re, im float64
		if i < len(real) {
			re = real[i]
		}
		if i < len(imag) {
			im = imag[i]
		}
		params[i] = complex(re, im)
	}
	return params
}
