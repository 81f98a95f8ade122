package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/memory"
	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/session"
	"github.com/aretw0/jot/pkg/store"
)

func setup(t *testing.T) (*session.Manager, *store.BlobStore, *memory.Store) {
	t.Helper()
	mem, err := memory.New(0)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notes := store.NewBlobStore(store.Config{KV: mem, Logger: logger})
	users := store.NewSessionStore(mem, nil, logger)
	m := session.NewManager(users, notes,
		session.WithLogger(logger),
		session.WithUserID(func() string { return "user-42" }),
	)
	return m, notes, mem
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setup(t)

	_, err := m.Current(ctx)
	assert.ErrorIs(t, err, core.ErrNoUser)

	u, err := m.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, core.User{ID: session.LoginUserID, Name: "ana", Email: "ana@example.com"}, u)

	current, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, current)
}

func TestLogin_RequiresFields(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setup(t)

	_, err := m.Login(ctx, "", "secret")
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = m.Login(ctx, "ana@example.com", "")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = m.Current(ctx)
	assert.ErrorIs(t, err, core.ErrNoUser)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setup(t)

	u, err := m.Register(ctx, "Ana Silva", "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, core.User{ID: "user-42", Name: "Ana Silva", Email: "ana@example.com"}, u)

	for _, in := range [][3]string{{"", "a@b.c", "p"}, {"Ana", "", "p"}, {"Ana", "a@b.c", ""}} {
		_, err := m.Register(ctx, in[0], in[1], in[2])
		var verr *core.ValidationError
		assert.ErrorAs(t, err, &verr, "input %v", in)
	}
}

func TestRegister_DefaultID(t *testing.T) {
	mem, err := memory.New(0)
	require.NoError(t, err)
	m := session.NewManager(store.NewSessionStore(mem, nil, nil), nil)

	u, err := m.Register(context.Background(), "Ana", "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Regexp(t, `^user-[0-9a-f-]{36}$`, u.ID)
}

func TestLogout_WipesNotes(t *testing.T) {
	ctx := context.Background()
	m, notes, mem := setup(t)

	_, err := m.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, notes.Save(ctx, []core.Note{{ID: "note-1", Title: "t", Content: "c"}}))

	require.NoError(t, m.Logout(ctx))

	_, err = m.Current(ctx)
	assert.ErrorIs(t, err, core.ErrNoUser)
	assert.Equal(t, 0, mem.State().(memory.StoreState).Keys)

	loaded, err := notes.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
