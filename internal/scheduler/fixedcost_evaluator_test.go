package scheduler

import "github.com/qcluster/qsim/internal/gate"

// fixedCostEvaluator stubs compiler.Evaluator with constant costs, per
// spec §9 ("inject it as a trait/interface into AdvanceCompiler; tests stub
// it with fixed costs").
type fixedCostEvaluator struct {
	perGateUs, blasUs float64
}

func (f fixedCostEvaluator) PerfPerGate(numLocalQubits int, types []gate.Type) float64 {
	return f.perGateUs * float64(len(types))
}

func (f fixedCostEvaluator) PerfBLAS(numLocalQubits, matSize int) float64 {
	return f.blasUs
}
