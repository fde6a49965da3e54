package executor

import (
	"context"
	"fmt"

	"github.com/qcluster/qsim/internal/compiler"
)

// RunDensityMatrix implements the MODE == 1 double-pass supplement described
// in original_source's DMExecutor::run: a density matrix rho = |psi><psi| is
// simulated by running the same compiled Schedule twice against the state
// vector -- once acting on the ket side, once (via transposeBetween) acting
// on the bra side -- since the compiler has no notion of a second index and
// simply reapplies its gate groups to whichever vector is currently loaded.
//
// dm_executor.cpp:24-33 never runs a group's overlapGroups at all -- it
// asserts the first group's is empty and calls UNIMPLEMENTED() for any later
// one that isn't, because a move-back overlap kernel launched twice (once
// per ket/bra pass) is not the same computation as launching it once. Since
// Config.DisableOverlap defaults to false, most schedules do carry overlap
// groups; RunDensityMatrix rejects them up front rather than silently
// running each one twice. Callers wanting MODE == 1 must compile with
// DisableOverlap set.
//
// transposeBetween is called once between the two passes; it is the
// caller's hook to swap in the conjugated/transposed operand the bra-side
// pass needs (a device-level detail out of this module's scope per §1).
func (e *Executor) RunDensityMatrix(ctx context.Context, schedule compiler.Schedule, transposeBetween func(ctx context.Context) error) error {
	for gi, lg := range schedule.LocalGroups {
		if len(lg.OverlapGroups) > 0 {
			return fmt.Errorf("executor: density-matrix mode requires a schedule compiled with DisableOverlap; group %d has %d overlap gate group(s)", gi, len(lg.OverlapGroups))
		}
	}
	if err := e.Run(ctx, schedule); err != nil {
		return fmt.Errorf("executor: density-matrix ket pass: %w", err)
	}
	if transposeBetween != nil {
		if err := transposeBetween(ctx); err != nil {
			return fmt.Errorf("executor: density-matrix transpose: %w", err)
		}
	}
	if err := e.Run(ctx, schedule); err != nil {
		return fmt.Errorf("executor: density-matrix bra pass: %w", err)
	}
	return nil
}
