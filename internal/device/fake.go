package device

import (
	"context"
	"fmt"

	"github.com/qcluster/qsim/internal/compiler"
	"github.com/qcluster/qsim/internal/gate"
)

// Fake is a single-process StateVector and KernelLauncher that actually
// applies gates to a dense, unpartitioned amplitude slice. It exists for
// tests that want to drive the executor end to end without a real GPU.
type Fake struct {
	NumQubits int
	Amps      []complex128
}

// NewFake returns a Fake initialized to |0...0>.
func NewFake(numQubits int) *Fake {
	amps := make([]complex128, 1<<uint(numQubits))
	amps[0] = 1
	return &Fake{NumQubits: numQubits, Amps: amps}
}

func (f *Fake) InitState(ctx context.Context, numQubits int) error {
	if numQubits != f.NumQubits {
		return fmt.Errorf("device: fake initialized for %d qubits, asked for %d", f.NumQubits, numQubits)
	}
	return nil
}

func (f *Fake) CopyBack(ctx context.Context, numQubits int) error { return nil }
func (f *Fake) Destroy(ctx context.Context) error                 { return nil }

func (f *Fake) GetAmp(ctx context.Context, gpuID int, localIdx uint64) (complex128, error) {
	if localIdx >= uint64(len(f.Amps)) {
		return 0, fmt.Errorf("device: amplitude index %d out of range", localIdx)
	}
	return f.Amps[localIdx], nil
}

// LaunchPerGateGroup applies every gate of gg, in order, to f.Amps. Gates
// are addressed by logical qubit index directly: the fake does not model a
// local/global partition, so state.Layout/relatedMask only matter to a real
// device kernel and are accepted here for interface compatibility.
func (f *Fake) LaunchPerGateGroup(ctx context.Context, gg compiler.GateGroup, state compiler.State, relatedMask gate.QubitSet, numLocalQubits int) error {
	for _, g := range gg.Gates {
		if err := f.applyGate(g); err != nil {
			return err
		}
	}
	return nil
}

// LaunchBLAS is functionally identical to the per-gate path in the fake: it
// has no dense-matrix kernel to diverge into.
func (f *Fake) LaunchBLAS(ctx context.Context, gg compiler.GateGroup, state compiler.State, numLocalQubits int) error {
	return f.LaunchPerGateGroup(ctx, gg, state, gg.RelatedQubits, numLocalQubits)
}

// Transpose is a no-op: the fake addresses qubits logically, so no physical
// reshuffle of the amplitude slice is needed between groups.
func (f *Fake) Transpose(ctx context.Context, plans []compiler.TransposePlan) error { return nil }

func (f *Fake) applyGate(g gate.Gate) error {
	mat := gateMatrix(g)
	switch {
	case g.IsMCGate():
		return f.applyControlled(mat, g.ControlQubits, g.TargetQubit)
	case g.IsTwoQubitGate():
		return f.applyControlled(mat, []int{int(g.EncodeQubit)}, g.TargetQubit)
	case g.IsControlGate():
		return f.applyControlled(mat, []int{g.ControlQubit}, g.TargetQubit)
	default:
		return f.applyControlled(mat, nil, g.TargetQubit)
	}
}

func gateMatrix(g gate.Gate) [4]complex128 {
	var m [4]complex128
	m[0], m[3] = 1, 1 // identity default when no params supplied
	for i := 0; i < len(g.Params) && i < 4; i++ {
		m[i] = g.Params[i]
	}
	return m
}

func (f *Fake) applyControlled(mat [4]complex128, controls []int, target int) error {
	if target < 0 || target >= f.NumQubits {
		return fmt.Errorf("device: target qubit %d out of range", target)
	}
	n := len(f.Amps)
	targetBit := uint(target)
	for i := 0; i < n; i++ {
		if i>>targetBit&1 != 0 {
			continue // visit each pair once, from the |..0..> side
		}
		if !allControlsSet(i, controls) {
			continue
		}
		j := i | 1<<targetBit
		a0, a1 := f.Amps[i], f.Amps[j]
		f.Amps[i] = mat[0]*a0 + mat[1]*a1
		f.Amps[j] = mat[2]*a0 + mat[3]*a1
	}
	return nil
}

func allControlsSet(idx int, controls []int) bool {
	for _, c := range controls {
		if idx>>uint(c)&1 == 0 {
			return false
		}
	}
	return true
}
