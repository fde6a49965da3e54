// Package executor drives a compiled Schedule against a pool of local
// devices, one worker per device, per §5: compilation is single-threaded and
// sequential, but execution is parallel across every local GPU. The pattern
// -- a semaphore sized to the worker pool plus an errgroup collecting the
// first error -- follows the sharded dispatch in go-ethereum's transaction
// batch processor.
package executor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/qcluster/qsim/internal/compiler"
	"github.com/qcluster/qsim/internal/device"
	"github.com/qcluster/qsim/internal/qlog"
)

// Device pairs one local GPU's collaborators under its rank-local index.
type Device struct {
	ID     int
	States device.StateVector
	Kernel device.KernelLauncher
}

// Executor owns a fixed pool of local devices and a Transport for the
// cross-rank exchanges a LocalGroup boundary requires.
type Executor struct {
	Devices   []Device
	Transport Transport
	Log       *qlog.Logger
}

// Transport is the narrow slice of transport.Transport the executor drives
// directly, kept separate so tests can fake just the all-to-all/barrier path
// without standing up a full collective stack.
type Transport interface {
	Barrier(ctx context.Context) error
	AllToAll(ctx context.Context, sendBuf []complex128, desc []compiler.CommEntry) ([]complex128, error)
}

// New builds an Executor over devices, bounding concurrent kernel launches
// to len(devices).
func New(devices []Device, transport Transport, log *qlog.Logger) *Executor {
	return &Executor{Devices: devices, Transport: transport, Log: log}
}

// Run executes schedule in order. Within a LocalGroup every device that owns
// a share of the amplitude array runs concurrently, bounded by a semaphore
// sized to the device pool; the group boundary's all-to-all and barrier are
// sequential, while each device's transpose runs inside its own worker just
// before that device's kernel launches.
func (e *Executor) Run(ctx context.Context, schedule compiler.Schedule) error {
	if len(e.Devices) == 0 {
		return fmt.Errorf("executor: no devices registered")
	}
	for gi, lg := range schedule.LocalGroups {
		if gi > 0 {
			if err := e.exchange(ctx, lg); err != nil {
				return fmt.Errorf("executor: group %d exchange: %w", gi, err)
			}
		}
		if err := e.runGroup(ctx, lg); err != nil {
			return fmt.Errorf("executor: group %d: %w", gi, err)
		}
		if e.Log != nil {
			e.Log.Infof("executor: group %d/%d done", gi+1, len(schedule.LocalGroups))
		}
	}
	return nil
}

// exchange moves amplitudes between ranks ahead of a LocalGroup whose global
// partition differs from the previous one. A and2aComm of length zero (the
// single-rank and first-group cases) is a no-op.
func (e *Executor) exchange(ctx context.Context, lg compiler.LocalGroup) error {
	if len(lg.A2AComm) == 0 {
		return nil
	}
	if e.Transport == nil {
		return fmt.Errorf("executor: local group needs an all-to-all exchange but no transport is configured")
	}
	for _, d := range e.Devices {
		amps, err := amplitudesOf(ctx, d.States, lg.A2ACommSize)
		if err != nil {
			return err
		}
		if _, err := e.Transport.AllToAll(ctx, amps, lg.A2AComm); err != nil {
			return err
		}
	}
	return e.Transport.Barrier(ctx)
}

func amplitudesOf(ctx context.Context, sv device.StateVector, size int) ([]complex128, error) {
	out := make([]complex128, size)
	for i := range out {
		amp, err := sv.GetAmp(ctx, 0, uint64(i))
		if err != nil {
			return nil, err
		}
		out[i] = amp
	}
	return out, nil
}

// runGroup fans the group's overlap and full kernel launches out across every
// device, bounded by a weighted semaphore sized to the device pool, and waits
// for every launch to either finish or the first one to fail.
func (e *Executor) runGroup(ctx context.Context, lg compiler.LocalGroup) error {
	sem := semaphore.NewWeighted(int64(len(e.Devices)))
	g, gctx := errgroup.WithContext(ctx)
	numLocalQubits := lg.RelatedQubits.BitCount()

	for _, d := range e.Devices {
		d := d
		if err := sem.Acquire(gctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)
			return e.runOnDevice(gctx, d, lg, numLocalQubits)
		})
	}
	return g.Wait()
}

func (e *Executor) runOnDevice(ctx context.Context, d Device, lg compiler.LocalGroup, numLocalQubits int) error {
	if err := d.States.InitState(ctx, numLocalQubits); err != nil {
		return fmt.Errorf("device %d: init state: %w", d.ID, err)
	}
	if len(lg.TransPlans) > 0 {
		if err := d.Kernel.Transpose(ctx, lg.TransPlans); err != nil {
			return fmt.Errorf("device %d: transpose: %w", d.ID, err)
		}
	}
	for _, gg := range lg.OverlapGroups {
		if err := e.launch(ctx, d, gg, lg.State, numLocalQubits); err != nil {
			return fmt.Errorf("device %d: overlap group: %w", d.ID, err)
		}
	}
	for _, gg := range lg.FullGroups {
		if err := e.launch(ctx, d, gg, lg.State, numLocalQubits); err != nil {
			return fmt.Errorf("device %d: full group: %w", d.ID, err)
		}
	}
	return d.States.CopyBack(ctx, numLocalQubits)
}

func (e *Executor) launch(ctx context.Context, d Device, gg compiler.GateGroup, state compiler.State, numLocalQubits int) error {
	if gg.Backend == compiler.BLAS {
		return d.Kernel.LaunchBLAS(ctx, gg, state, numLocalQubits)
	}
	return d.Kernel.LaunchPerGateGroup(ctx, gg, state, gg.RelatedQubits, numLocalQubits)
}
