// Package scheduler orchestrates the compiler passes into a finished
// Schedule: it runs SimpleCompiler over the whole circuit, runs move-back,
// fills every group's local slots, then walks the groups computing each
// one's qubit permutation and delegating to AdvanceCompiler for the actual
// per-group, per-backend packing.
package scheduler

import (
	"fmt"

	"github.com/qcluster/qsim/internal/compiler"
	"github.com/qcluster/qsim/internal/evaluator"
	"github.com/qcluster/qsim/internal/gate"
	"github.com/qcluster/qsim/internal/qlog"
)

// DefaultEvaluator returns the calibrated Evaluator a real deployment wires
// into Config.Eval; callers with hardware-specific measurements provide
// their own compiler.Evaluator instead.
func DefaultEvaluator() compiler.Evaluator {
	return evaluator.NewCalibrated()
}

// Backend selects which AdvanceCompiler backend(s) are enabled for a run,
// modeling the source's build-time GPU_BACKEND switch as a runtime value.
type Backend int

const (
	// BackendPerGate enables only the per-gate kernel (source backends 1, 2).
	BackendPerGate Backend = iota
	// BackendBLAS enables only the BLAS backend (source backends 3, 5).
	BackendBLAS
	// BackendBoth lets AdvanceCompiler pick per group (source backend 4).
	BackendBoth
)

func (b Backend) flags() (usePerGate, useBLAS bool) {
	switch b {
	case BackendPerGate:
		return true, false
	case BackendBLAS:
		return false, true
	default:
		return true, true
	}
}

// DefaultLocalQubitSize and DefaultBlasMatLimit are the per-gate and BLAS
// packing budgets a zero-valued Config falls back to, matching the source's
// build-time LOCAL_QUBIT_SIZE/BLAS_MAT_LIMIT constants.
const (
	DefaultLocalQubitSize = 10
	DefaultBlasMatLimit   = 7
)

// Config carries the tunables of §6: qubit/global-bit counts, the
// enable-global / chunked mode switch, in-place rewiring budget, overlap
// toggle and backend selection. LocalQubitSize, BlasMatLimit and
// CoalesceGlobal default to the source's build-time constants when left
// zero, but are exposed here (and from cmd/qsim-compile's flags) so a
// deployment can retune them per device without a rebuild.
type Config struct {
	NumQubits      int
	GlobalBit      int
	Mode           int // 2 disables global-phase absorption (enableGlobal = Mode != 2)
	Inplace        int
	DisableOverlap bool
	Backend        Backend
	Eval           compiler.Evaluator

	LocalQubitSize int
	BlasMatLimit   int
	CoalesceGlobal int
}

type Scheduler struct {
	cfg Config
	log *qlog.Logger
}

func New(cfg Config, log *qlog.Logger) *Scheduler {
	return &Scheduler{cfg: cfg, log: log}
}

// Run implements §4.7 Scheduler.run.
func (s *Scheduler) Run(gates []gate.Gate) (compiler.Schedule, error) {
	cfg := s.cfg
	numQubits, globalBit := cfg.NumQubits, cfg.GlobalBit
	localSize := numQubits - globalBit
	enableGlobal := cfg.Mode != 2

	localQubitSize := cfg.LocalQubitSize
	if localQubitSize == 0 {
		localQubitSize = DefaultLocalQubitSize
	}
	blasMatLimit := cfg.BlasMatLimit
	if blasMatLimit == 0 {
		blasMatLimit = DefaultBlasMatLimit
	}
	coalesceGlobal := cfg.CoalesceGlobal
	if coalesceGlobal == 0 {
		coalesceGlobal = compiler.DefaultCoalesceGlobal
	}

	for _, g := range gates {
		for _, q := range g.Operands() {
			if q < 0 || q >= numQubits {
				return compiler.Schedule{}, fmt.Errorf("scheduler: gate %q operand %d out of range for %d qubits", g.Name, q, numQubits)
			}
		}
	}

	if s.log != nil {
		s.log.TotalGates(len(gates))
	}

	inplaceSize := cfg.Inplace
	if v := localSize - 2; inplaceSize > v {
		inplaceSize = v
	}
	if inplaceSize < 0 {
		inplaceSize = 0
	}
	var required gate.QubitSet
	if inplaceSize > 0 {
		required = gate.QubitSet(1)<<uint(inplaceSize) - 1
	}
	if required.BitCount() > localSize {
		return compiler.Schedule{}, fmt.Errorf("scheduler: inplace requirement exceeds local qubit budget")
	}

	localCompiler := compiler.NewSimpleCompiler(numQubits, localSize, enableGlobal)
	fullGroups := localCompiler.Run(gates, 0, required)

	localGroup := compiler.LocalGroup{FullGroups: fullGroups}
	for _, gg := range fullGroups {
		localGroup.RelatedQubits |= gg.RelatedQubits
	}

	moveBack := compiler.MoveToNext(numQubits, globalBit, enableGlobal, cfg.DisableOverlap, &localGroup)
	compiler.FillLocals(&localGroup, numQubits-globalBit)

	var schedule compiler.Schedule
	state := compiler.Identity(numQubits)
	numLocalQubits := numQubits - globalBit
	usePerGate, useBLAS := cfg.Backend.flags()

	totalFullGroups, totalFullGates, totalOverlapGates := 0, 0, 0

	for id, gg := range localGroup.FullGroups {
		var newGlobals []int
		for i := 0; i < numQubits; i++ {
			if !gg.RelatedQubits.Has(i) {
				newGlobals = append(newGlobals, i)
			}
		}
		if len(newGlobals) != globalBit {
			return compiler.Schedule{}, fmt.Errorf("scheduler: group %d has %d global qubits, want %d", id, len(newGlobals), globalBit)
		}

		overlapGlobals, newGlobals := reorderOverlap(state.Layout, numLocalQubits, numQubits, newGlobals)

		var groupState compiler.State
		switch {
		case id == 0:
			groupState = compiler.InitFirstGroupState(numQubits, newGlobals)
		case cfg.Inplace > 0:
			groupState = compiler.InitStateInplace(state, numQubits, newGlobals, overlapGlobals, globalBit)
		default:
			groupState = compiler.InitState(state, numQubits, newGlobals, overlapGlobals, moveBack[id].RelatedQubits, globalBit)
		}

		lg := compiler.LocalGroup{RelatedQubits: gg.RelatedQubits, State: groupState}
		if id > 0 {
			lg.A2ACommSize, lg.A2AComm, lg.TransPlans = a2aDescriptor(state, groupState, numLocalQubits, overlapGlobals, globalBit, cfg.Inplace > 0)
		}

		overlapLocals := gg.RelatedQubits
		var overlapBlasForbid gate.QubitSet
		if id > 0 {
			prevRelated := localGroup.FullGroups[id-1].RelatedQubits
			overlapLocals &= prevRelated
			overlapBlasForbid = (^prevRelated) & gg.RelatedQubits
		}

		overlapCompiler := compiler.NewAdvanceCompiler(numQubits, int64(overlapLocals), overlapBlasForbid, enableGlobal, globalBit, cfg.Eval)
		overlapCompiler.CoalesceGlobal = coalesceGlobal
		fullCompiler := compiler.NewAdvanceCompiler(numQubits, int64(gg.RelatedQubits), 0, enableGlobal, globalBit, cfg.Eval)
		fullCompiler.CoalesceGlobal = coalesceGlobal

		runState := groupState
		var overlapLG compiler.LocalGroup
		overlapLG, runState = overlapCompiler.Run(moveBack[id].Gates, runState, usePerGate, useBLAS, localQubitSize, blasMatLimit, numLocalQubits-globalBit)
		lg.OverlapGroups = overlapLG.FullGroups

		var fullLG compiler.LocalGroup
		fullLG, runState = fullCompiler.Run(gg.Gates, runState, usePerGate, useBLAS, localQubitSize, blasMatLimit, numLocalQubits)
		lg.FullGroups = fullLG.FullGroups

		state = runState
		schedule.LocalGroups = append(schedule.LocalGroups, lg)

		totalFullGroups += len(lg.FullGroups)
		totalFullGates += len(gg.Gates)
		totalOverlapGates += len(moveBack[id].Gates)
	}
	schedule.FinalState = state

	if s.log != nil {
		s.log.TotalGroups(len(schedule.LocalGroups), totalFullGroups, totalFullGates, totalOverlapGates)
	}

	return schedule, nil
}

// reorderOverlap permutes newGlobals in place so that any qubit already
// resident in a global physical slot keeps that slot, minimizing the data
// movement the coming all-to-all exchange has to do. It returns the fixed
// positions as a bitmask (overlapGlobals) alongside the reordered slice.
func reorderOverlap(layout []int, numLocalQubits, numQubits int, newGlobals []int) (gate.QubitSet, []int) {
	newGlobals = append([]int(nil), newGlobals...)
	var overlapGlobals gate.QubitSet
	for {
		modified := false
		overlapGlobals = 0
		for i, q := range newGlobals {
			p, isGlobal := globalPos(layout, numLocalQubits, numQubits, q)
			if !isGlobal {
				continue
			}
			newGlobals[p], newGlobals[i] = newGlobals[i], newGlobals[p]
			overlapGlobals = overlapGlobals.With(p)
			if p != i {
				modified = true
			}
		}
		if !modified {
			break
		}
	}
	return overlapGlobals, newGlobals
}

func globalPos(layout []int, numLocalQubits, numQubits, q int) (int, bool) {
	for p := numLocalQubits; p < numQubits; p++ {
		if layout[p] == q {
			return p - numLocalQubits, true
		}
	}
	return 0, false
}

// a2aDescriptor computes the boundary's all-to-all size, per-peer transfer
// list, and (outside INPLACE mode) the device-local transpose plan, given
// how many of the globalBit global slots reorderOverlap could not pin to
// their previous occupant. overlapGlobals has one bit set per global slot
// that kept its qubit across the boundary; the remaining slots are the ones
// whose data actually has to move.
//
// A local amplitude buffer of size 2^numLocalQubits is split into
// 2^movedBits equal chunks, one per combination of the moved global bits;
// chunk p goes to peer p, except peer 0 which is this rank's own share and
// never leaves the device. In INPLACE mode the swap is realized without a
// preceding local transpose (state.go's InitStateInplace uses InitState's
// permutation with no overlapRelated priority), so
// TransPlans stays nil and the caller is expected to run the exchange
// in-place. Outside INPLACE mode, TransPlans lists the local positions whose
// occupant changed since prev, which is exactly what a transpose kernel
// needs to bring contiguous before its half of the exchange.
func a2aDescriptor(prev, next compiler.State, numLocalQubits int, overlapGlobals gate.QubitSet, globalBit int, inplace bool) (int, []compiler.CommEntry, []compiler.TransposePlan) {
	movedBits := globalBit - overlapGlobals.BitCount()
	if movedBits <= 0 {
		return 0, nil, nil
	}

	localAmps := 1 << uint(numLocalQubits)
	numPeers := 1 << uint(movedBits)
	chunk := localAmps / numPeers

	comm := make([]compiler.CommEntry, 0, numPeers-1)
	for peer := 1; peer < numPeers; peer++ {
		comm = append(comm, compiler.CommEntry{
			Peer:   peer,
			Offset: uint64(peer * chunk),
			Count:  uint64(chunk),
		})
	}

	if inplace {
		return localAmps, comm, nil
	}

	moved := transposedPositions(prev, next, numLocalQubits)
	if len(moved) == 0 {
		return localAmps, comm, nil
	}
	return localAmps, comm, []compiler.TransposePlan{{Qubits: moved}}
}

// transposedPositions lists the local physical positions (< numLocalQubits)
// whose occupant differs between prev and next.
func transposedPositions(prev, next compiler.State, numLocalQubits int) []int {
	var qubits []int
	for p := 0; p < numLocalQubits && p < len(next.Layout) && p < len(prev.Layout); p++ {
		if prev.Layout[p] != next.Layout[p] {
			qubits = append(qubits, p)
		}
	}
	return qubits
}
