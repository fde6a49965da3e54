// Package evaluator provides a calibrated default implementation of
// compiler.Evaluator: a hardware cost model the AdvanceCompiler consults to
// pick between per-gate and BLAS backends. Tests in the compiler package
// stub the interface directly with fixed costs; this package is what a real
// deployment wires in.
package evaluator

import (
	"math"

	"github.com/qcluster/qsim/internal/gate"
)

// Calibrated estimates microsecond costs from a fixed per-gate-type
// overhead and a BLAS base cost, both scaled by the local amplitude count.
type Calibrated struct {
	PerGateOverheadUs float64
	PerGateTypeCostUs map[gate.Type]float64
	BLASBaseUs        float64
}

// NewCalibrated returns a Calibrated evaluator with default coefficients:
// multi-controlled and two-qubit gates cost more per launch than single- or
// control-qubit gates, reflecting the larger amplitude-pair stride they walk.
func NewCalibrated() *Calibrated {
	return &Calibrated{
		PerGateOverheadUs: 0.8,
		PerGateTypeCostUs: map[gate.Type]float64{
			gate.Single:   1.0,
			gate.Control:  1.4,
			gate.TwoQubit: 1.6,
			gate.MC:       2.2,
		},
		BLASBaseUs: 0.05,
	}
}

func (c *Calibrated) PerfPerGate(numLocalQubits int, types []gate.Type) float64 {
	if len(types) == 0 {
		return 0
	}
	amplitudes := math.Exp2(float64(numLocalQubits))
	total := 0.0
	for _, t := range types {
		total += c.PerGateOverheadUs + amplitudes*c.perGateTypeCostUs(t)
	}
	return total
}

func (c *Calibrated) perGateTypeCostUs(t gate.Type) float64 {
	if cost, ok := c.PerGateTypeCostUs[t]; ok {
		return cost
	}
	return 1.0
}

func (c *Calibrated) PerfBLAS(numLocalQubits, matSize int) float64 {
	amplitudes := math.Exp2(float64(numLocalQubits))
	return c.BLASBaseUs * amplitudes * float64(matSize) * float64(matSize)
}
