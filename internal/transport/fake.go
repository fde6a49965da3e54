package transport

import (
	"context"

	"github.com/qcluster/qsim/internal/compiler"
)

// SingleRank is a Transport for a one-rank run: every collective is a
// pass-through, since there is no peer to exchange with. It's the
// degenerate case every multi-rank Transport must also satisfy.
type SingleRank struct{}

func (SingleRank) Broadcast(ctx context.Context, buf []byte, root int) ([]byte, error) {
	return buf, nil
}

func (SingleRank) Gather(ctx context.Context, v []complex128, root int) ([]complex128, error) {
	return v, nil
}

func (SingleRank) Barrier(ctx context.Context) error { return nil }

func (SingleRank) AllToAll(ctx context.Context, sendBuf []complex128, desc []compiler.CommEntry) ([]complex128, error) {
	return sendBuf, nil
}
