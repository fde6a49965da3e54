// Package device declares the GPU state-vector and kernel-launcher
// collaborators the compiler hands its Schedule to. Per §1 these are out of
// scope for this module -- the real device-side implementation is a CUDA/
// ROCm backend living elsewhere -- so only the narrow interfaces a consumer
// needs are defined here, plus an in-process fake for tests.
package device

import (
	"context"

	"github.com/qcluster/qsim/internal/compiler"
	"github.com/qcluster/qsim/internal/gate"
)

// StateVector owns one device's slice of the amplitude array.
type StateVector interface {
	InitState(ctx context.Context, numQubits int) error
	CopyBack(ctx context.Context, numQubits int) error
	Destroy(ctx context.Context) error
	GetAmp(ctx context.Context, gpuID int, localIdx uint64) (complex128, error)
}

// KernelLauncher executes one gate group, or a transpose plan, against a
// StateVector already InitState'd for the current local qubit count.
type KernelLauncher interface {
	LaunchPerGateGroup(ctx context.Context, gg compiler.GateGroup, state compiler.State, relatedMask gate.QubitSet, numLocalQubits int) error
	LaunchBLAS(ctx context.Context, gg compiler.GateGroup, state compiler.State, numLocalQubits int) error
	Transpose(ctx context.Context, plans []compiler.TransposePlan) error
}
