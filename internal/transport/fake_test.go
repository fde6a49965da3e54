package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcluster/qsim/internal/compiler"
)

// SingleRank is the degenerate one-rank Transport: every collective returns
// its input unchanged, since there is no peer to exchange with.
func TestSingleRank_CollectivesPassThrough(t *testing.T) {
	var tr Transport = SingleRank{}
	ctx := context.Background()

	buf, err := tr.Broadcast(ctx, []byte{1, 2, 3}, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, buf)

	v, err := tr.Gather(ctx, []complex128{1, 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, []complex128{1, 2}, v)

	require.NoError(t, tr.Barrier(ctx))

	desc := []compiler.CommEntry{{Peer: 1, Offset: 0, Count: 4}}
	out, err := tr.AllToAll(ctx, []complex128{5, 6}, desc)
	require.NoError(t, err)
	assert.Equal(t, []complex128{5, 6}, out)
}
