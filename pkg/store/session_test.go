package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/memory"
	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/store"
)

func TestSessionStore(t *testing.T) {
	mem := newMemKV(t)
	s := store.NewSessionStore(mem, nil, nil)
	ctx := context.Background()

	_, err := s.Current(ctx)
	assert.ErrorIs(t, err, core.ErrNoUser)

	u := core.User{ID: "user-1", Name: "ana", Email: "ana@example.com"}
	require.NoError(t, s.Set(ctx, u))

	raw, err := mem.Get(ctx, store.UserKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"user-1","name":"ana","email":"ana@example.com"}`, string(raw))

	got, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Current(ctx)
	assert.ErrorIs(t, err, core.ErrNoUser)
}

func TestSessionStore_GarbageAndUnavailable(t *testing.T) {
	ctx := context.Background()

	mem := newMemKV(t)
	require.NoError(t, mem.Set(ctx, store.UserKey, []byte("garbage")))
	_, err := store.NewSessionStore(mem, nil, nil).Current(ctx)
	assert.ErrorIs(t, err, core.ErrNoUser)

	s := store.NewSessionStore(memory.Unavailable{}, nil, nil)
	_, err = s.Current(ctx)
	assert.ErrorIs(t, err, core.ErrNoUser)
	assert.NoError(t, s.Set(ctx, core.User{ID: "user-1"}))
	assert.NoError(t, s.Clear(ctx))
}
