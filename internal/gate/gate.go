// Package gate defines the immutable gate record that the compiler operates
// on: a type tag plus qubit operands. The compiler never inspects matrix
// entries; it only needs the predicates below to decide how a gate's
// operands constrain a group's qubit budget.
package gate

import "math/bits"

// QubitSet is a bitmask over qubit indices in [0, N), N <= 62.
type QubitSet uint64

// BitCount returns the number of set qubits in s.
func (s QubitSet) BitCount() int {
	return bits.OnesCount64(uint64(s))
}

// Has reports whether qubit q is a member of s.
func (s QubitSet) Has(q int) bool {
	return s&(1<<uint(q)) != 0
}

// With returns s with qubit q added.
func (s QubitSet) With(q int) QubitSet {
	return s | (1 << uint(q))
}

// Type tags the four gate shapes the compiler distinguishes. No inheritance:
// a Gate is a tagged variant, following the shape used by HershLalwani's
// circuit.Gate (Type string, Control -1 if absent, Controls []int).
type Type int

const (
	// Single is a one-qubit gate: only TargetQubit is meaningful.
	Single Type = iota
	// Control is a one-control, one-target gate (CNOT, CZ, CRZ, ...).
	Control
	// TwoQubit is a non-control two-qubit gate (SWAP, iSWAP, a dense
	// two-qubit unitary). EncodeQubit holds the second operand.
	TwoQubit
	// MC is a multi-controlled gate. ControlQubits holds the ordered
	// control list; EncodeQubit doubles as a bitmask of those controls.
	MC
)

// Gate is immutable after construction. Its identity within the compiler is
// its position in the input list, never a pointer or a name.
type Gate struct {
	Name string
	Type Type

	TargetQubit int

	// ControlQubit is the single control operand for Type == Control, or -1.
	ControlQubit int

	// ControlQubits is the ordered control list for Type == MC.
	ControlQubits []int

	// EncodeQubit is the second operand for Type == TwoQubit, or the
	// bitmask of ControlQubits for Type == MC.
	EncodeQubit int64

	// Diagonal marks gates whose matrix is diagonal in the computational
	// basis. Set explicitly at construction; named single-qubit gates
	// (Z, S, T, RZ, ...) are diagonal, as are their controlled variants.
	Diagonal bool

	// Params carries opaque numeric parameters (complex matrix entries).
	// The compiler never reads this field.
	Params []complex128
}

// IsDiagonal reports whether g commutes with all other diagonal gates and
// contributes only a phase when its operand is not resident locally.
func (g *Gate) IsDiagonal() bool { return g.Diagonal }

// IsControlGate reports whether g is a single-control, single-target gate.
func (g *Gate) IsControlGate() bool { return g.Type == Control }

// IsTwoQubitGate reports whether g is a non-control two-qubit gate.
func (g *Gate) IsTwoQubitGate() bool { return g.Type == TwoQubit }

// IsMCGate reports whether g is multi-controlled.
func (g *Gate) IsMCGate() bool { return g.Type == MC }

// Operands returns every qubit g acts on, in no particular order.
func (g *Gate) Operands() []int {
	switch g.Type {
	case Single:
		return []int{g.TargetQubit}
	case Control:
		return []int{g.TargetQubit, g.ControlQubit}
	case TwoQubit:
		return []int{g.TargetQubit, int(g.EncodeQubit)}
	case MC:
		ops := make([]int, 0, len(g.ControlQubits)+1)
		ops = append(ops, g.TargetQubit)
		ops = append(ops, g.ControlQubits...)
		return ops
	default:
		return nil
	}
}

// OperandMask returns Operands() packed as a QubitSet.
func (g *Gate) OperandMask() QubitSet {
	var m QubitSet
	for _, q := range g.Operands() {
		m = m.With(q)
	}
	return m
}

// NewSingle builds a one-qubit gate.
func NewSingle(name string, target int, diagonal bool, params ...complex128) Gate {
	return Gate{Name: name, Type: Single, TargetQubit: target, ControlQubit: -1, Diagonal: diagonal, Params: params}
}

// NewControl builds a single-control, single-target gate.
func NewControl(name string, control, target int, diagonal bool, params ...complex128) Gate {
	return Gate{Name: name, Type: Control, TargetQubit: target, ControlQubit: control, Diagonal: diagonal, Params: params}
}

// NewTwoQubit builds a non-control two-qubit gate.
func NewTwoQubit(name string, a, b int, diagonal bool, params ...complex128) Gate {
	return Gate{Name: name, Type: TwoQubit, TargetQubit: b, EncodeQubit: int64(a), ControlQubit: -1, Diagonal: diagonal, Params: params}
}

// NewMC builds a multi-controlled gate. controls must be ordered.
func NewMC(name string, controls []int, target int, diagonal bool, params ...complex128) Gate {
	var mask int64
	cs := append([]int(nil), controls...)
	for _, c := range cs {
		mask |= 1 << uint(c)
	}
	return Gate{Name: name, Type: MC, TargetQubit: target, ControlQubit: -1, ControlQubits: cs, EncodeQubit: mask, Diagonal: diagonal, Params: params}
}
