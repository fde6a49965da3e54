package compiler

import "github.com/qcluster/qsim/internal/gate"

// Evaluator is the hardware-calibrated cost model AdvanceCompiler consults to
// pick between the per-gate and BLAS backends. It is a narrow,
// consumer-defined interface: the compiler package only needs these two
// throughput predictors, never a concrete device or benchmark harness.
type Evaluator interface {
	// PerfPerGate estimates the time, in microseconds, to run the given gate
	// types as individual per-gate kernels over a state vector with the
	// given number of local qubits.
	PerfPerGate(numLocalQubits int, types []gate.Type) float64

	// PerfBLAS estimates the time, in microseconds, for a dense matSize x
	// matSize matrix multiply over a state vector with the given number of
	// local qubits.
	PerfBLAS(numLocalQubits, matSize int) float64
}
