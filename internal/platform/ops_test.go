package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/memory"
	"github.com/aretw0/jot/pkg/kv"
)

// watchingKV is a memory store that reports a single change per Watch.
type watchingKV struct {
	*memory.Store
}

func (w watchingKV) Watch(ctx context.Context, key string) (<-chan kv.Change, error) {
	ch := make(chan kv.Change, 1)
	ch <- kv.Change{Key: key, Type: kv.ChangeSet}
	close(ch)
	return ch, nil
}

func TestReadOnly_KeepsWatch(t *testing.T) {
	mem, err := memory.New(0)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "notes", []byte("[]")))

	ro := readOnly(watchingKV{mem})

	assert.ErrorIs(t, ro.Set(ctx, "notes", nil), kv.ErrReadOnly)
	assert.ErrorIs(t, ro.Remove(ctx, "notes"), kv.ErrReadOnly)
	data, err := ro.Get(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	w, ok := ro.(kv.Watcher)
	require.True(t, ok, "read-only wrapper must keep the watch capability")
	changes, err := w.Watch(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, kv.Change{Key: "notes", Type: kv.ChangeSet}, <-changes)
}

func TestReadOnly_WithoutWatch(t *testing.T) {
	mem, err := memory.New(0)
	require.NoError(t, err)

	ro := readOnly(mem)
	_, ok := ro.(kv.Watcher)
	assert.False(t, ok)
	_, ok = ro.(kv.Locker)
	assert.False(t, ok)
}
