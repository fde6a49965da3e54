// Package transport declares the collective communication collaborator the
// scheduler's broadcast and the executor's all-to-all exchange depend on.
// The real implementation is an MPI (or NCCL) wrapper, out of scope per §1;
// this package is the interface plus a single-process fake for tests.
package transport

import (
	"context"

	"github.com/qcluster/qsim/internal/compiler"
)

// Transport is the narrow set of collective operations the core needs.
type Transport interface {
	// Broadcast sends buf from root to every rank, returning the buffer
	// every rank (including root) should use afterward.
	Broadcast(ctx context.Context, buf []byte, root int) ([]byte, error)

	// Gather concatenates every rank's v at root, in rank order.
	Gather(ctx context.Context, v []complex128, root int) ([]complex128, error)

	Barrier(ctx context.Context) error

	// AllToAll exchanges amplitude blocks per a per-group communication
	// descriptor computed by the scheduler.
	AllToAll(ctx context.Context, sendBuf []complex128, desc []compiler.CommEntry) ([]complex128, error)
}
