package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/git"
)

func open(t *testing.T, uri string, opts ...platform.Option) *platform.Notebook {
	t.Helper()
	nb, err := platform.New(uri, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { nb.Close() })
	return nb
}

func createNote(t *testing.T, nb *platform.Notebook) core.Note {
	t.Helper()
	n, err := nb.Service.Create(context.Background(), core.NewNote{
		Title:     "Groceries",
		Content:   "milk #shopping",
		Category:  core.CategoryPersonal,
		CreatorID: "user-1",
	})
	require.NoError(t, err)
	return n
}

func TestNew_FS(t *testing.T) {
	dir := t.TempDir()
	nb := open(t, dir, platform.WithVersioning(false))

	n := createNote(t, nb)
	assert.Equal(t, dir, nb.Path)

	data, err := os.ReadFile(filepath.Join(dir, "notes.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), n.ID)

	// a second notebook on the same directory sees the note
	again := open(t, dir)
	got, err := again.Service.Get(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Title, got.Title)
}

func TestNew_Format(t *testing.T) {
	dir := t.TempDir()
	nb := open(t, dir, platform.WithFormat("yaml"))
	createNote(t, nb)

	_, err := os.Stat(filepath.Join(dir, "notes.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "yaml", nb.Format)

	_, err = platform.New(dir, platform.WithFormat("xml"))
	assert.Error(t, err)
}

func TestNew_UnknownAdapter(t *testing.T) {
	_, err := platform.New(t.TempDir(), platform.WithAdapter("s3"))
	assert.ErrorContains(t, err, "unknown adapter")
}

func TestNew_MustExist(t *testing.T) {
	_, err := platform.New(filepath.Join(t.TempDir(), "missing"), platform.WithAutoInit(false))
	assert.Error(t, err)
}

func TestNew_Memory(t *testing.T) {
	nb := open(t, "", platform.WithAdapter(platform.AdapterMemory), platform.WithCacheSize(4))
	n := createNote(t, nb)

	notes, err := nb.Service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, n.ID, notes[0].ID)
}

func TestNew_SQLite(t *testing.T) {
	dir := t.TempDir()
	nb := open(t, dir, platform.WithAdapter(platform.AdapterSQLite))
	n := createNote(t, nb)
	assert.Equal(t, filepath.Join(dir, "jot.db"), nb.Path)
	require.NoError(t, nb.Close())

	again := open(t, dir, platform.WithAdapter(platform.AdapterSQLite))
	got, err := again.Service.Get(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Content, got.Content)
}

func TestNew_NoStorage(t *testing.T) {
	nb := open(t, "", platform.WithAdapter(platform.AdapterNone))

	// writes are accepted and dropped
	createNote(t, nb)
	notes, err := nb.Service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNew_RedisUnreachableDegrades(t *testing.T) {
	nb := open(t, "", platform.WithAdapter(platform.AdapterRedis),
		platform.WithRedis(platform.RedisConfig{Addr: "127.0.0.1:1"}))

	createNote(t, nb)
	notes, err := nb.Service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNew_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	createNote(t, open(t, dir))

	ro := open(t, dir, platform.WithReadOnly(true))
	notes, err := ro.Service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)

	_, err = ro.Service.Create(context.Background(), core.NewNote{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, core.ErrReadOnly)
}

func TestNew_ServiceOptions(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	nb := open(t, "",
		platform.WithAdapter(platform.AdapterMemory),
		platform.WithHistoryCap(2),
		platform.WithRequireFields(false),
		platform.WithClock(func() time.Time { return fixed }),
	)
	ctx := context.Background()

	n, err := nb.Service.Create(ctx, core.NewNote{})
	require.NoError(t, err, "empty fields allowed when not required")
	assert.Equal(t, fixed, n.CreatedAt)

	for _, c := range []string{"a", "b", "c"} {
		c := c
		_, err := nb.Service.Update(ctx, n.ID, core.Patch{Content: &c})
		require.NoError(t, err)
	}
	h, err := nb.Service.History(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, "c", h[1].Content)
}

func TestNew_VersioningDetected(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	require.NoError(t, git.NewClient(dir, "", nil).Init())

	nb := open(t, dir)
	createNote(t, nb)

	log, err := git.NewClient(dir, "", nil).Log()
	require.NoError(t, err)
	assert.Contains(t, log, "update notes")
}

func TestNotebook_SessionAndState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	nb := open(t, dir)

	u, err := nb.Session.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
	createNote(t, nb)

	st := nb.State().(platform.NotebookState)
	assert.Equal(t, "fs", st.Adapter)
	assert.Equal(t, "json", st.Format)
	assert.Equal(t, u.ID, st.User)
	assert.Equal(t, "notebook", nb.ComponentType())

	require.NoError(t, nb.Session.Logout(ctx))
	_, err = os.Stat(filepath.Join(dir, "notes.json"))
	assert.True(t, os.IsNotExist(err), "logout removes the notes")
	_, err = os.Stat(filepath.Join(dir, "user.json"))
	assert.True(t, os.IsNotExist(err), "logout removes the user")
}

type stubStore struct{ notes []core.Note }

func (s *stubStore) Load(context.Context) ([]core.Note, error) { return s.notes, nil }
func (s *stubStore) Save(_ context.Context, n []core.Note) error {
	s.notes = n
	return nil
}

func TestNew_InjectedNoteStore(t *testing.T) {
	stub := &stubStore{}
	nb := open(t, "", platform.WithAdapter(platform.AdapterMemory), platform.WithNoteStore(stub))

	createNote(t, nb)
	assert.Len(t, stub.notes, 1)

	// stub cannot be cleared; logout still succeeds
	require.NoError(t, nb.Session.Logout(context.Background()))
}
