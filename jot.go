package jot

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/kv"
)

// --- Types ---

// Notebook bundles the note service and the session manager of one storage area.
type Notebook = platform.Notebook

// NotebookState is the introspection snapshot of a Notebook.
type NotebookState = platform.NotebookState

// RedisConfig addresses the redis adapter.
type RedisConfig = platform.RedisConfig

// --- Configuration ---

// Option defines a functional option for configuring jot.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterMemory = platform.AdapterMemory
	AdapterSQLite = platform.AdapterSQLite
	AdapterRedis  = platform.AdapterRedis
	AdapterNone   = platform.AdapterNone
)

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option { return platform.WithLogger(logger) }

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option { return platform.WithAdapter(name) }

// WithFormat selects the codec of the stored collection ("json", "yaml", "cbor").
func WithFormat(name string) Option { return platform.WithFormat(name) }

// WithHistoryCap sets how many history entries a note keeps. Zero means uncapped.
func WithHistoryCap(n int) Option { return platform.WithHistoryCap(n) }

// WithRequireFields toggles title/content validation on create.
func WithRequireFields(required bool) Option { return platform.WithRequireFields(required) }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return platform.WithClock(now) }

// WithIDGenerator overrides how ids are minted.
func WithIDGenerator(ids core.IDGenerator) Option { return platform.WithIDGenerator(ids) }

// WithVersioning commits every write of the fs adapter with git.
func WithVersioning(enabled bool) Option { return platform.WithVersioning(enabled) }

// WithAutoInit creates the storage directory if missing.
func WithAutoInit(auto bool) Option { return platform.WithAutoInit(auto) }

// WithMustExist requires the storage directory to exist already.
func WithMustExist(must bool) Option { return platform.WithMustExist(must) }

// WithReadOnly rejects every write.
func WithReadOnly(enabled bool) Option { return platform.WithReadOnly(enabled) }

// WithStrict makes undecodable stored data an error.
func WithStrict(strict bool) Option { return platform.WithStrict(strict) }

// WithForceTemp forces the use of a temporary directory.
func WithForceTemp(force bool) Option { return platform.WithForceTemp(force) }

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option { return platform.WithDevSafety(enabled) }

// WithSystemDir sets the hidden directory name of the fs adapter.
func WithSystemDir(name string) Option { return platform.WithSystemDir(name) }

// WithWatcherErrorHandler receives runtime errors of the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithCacheSize bounds the number of keys of the memory adapter.
func WithCacheSize(n int) Option { return platform.WithCacheSize(n) }

// WithSQLitePath sets the database file of the sqlite adapter.
func WithSQLitePath(path string) Option { return platform.WithSQLitePath(path) }

// WithRedis configures the redis adapter.
func WithRedis(cfg RedisConfig) Option { return platform.WithRedis(cfg) }

// WithKV injects a key-value store.
func WithKV(store kv.Store) Option { return platform.WithKV(store) }

// WithNoteStore injects the note store used by the service.
func WithNoteStore(store core.NoteStore) Option { return platform.WithNoteStore(store) }

// --- Factory ---

// New opens the notebook at uri.
func New(uri string, opts ...Option) (*Notebook, error) {
	return platform.New(uri, opts...)
}

// Open is New with a context bounding adapter initialization.
func Open(ctx context.Context, uri string, opts ...Option) (*Notebook, error) {
	return platform.Open(ctx, uri, opts...)
}

// --- Pure helpers ---

// Categories returns the closed set of note categories.
func Categories() []core.Category { return core.Categories() }

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (core.Category, error) { return core.ParseCategory(s) }

// ExtractTags returns the hashtags found in content.
func ExtractTags(content string) []string { return core.ExtractTags(content) }

// --- Safety & Utils ---

// ResolvePath determines the storage directory based on the dev sandbox rules.
func ResolvePath(userPath string, sandbox bool) string {
	return platform.ResolvePath(userPath, sandbox)
}

// IsDevRun reports whether the process runs via `go run` or `go test`.
func IsDevRun() bool { return platform.IsDevRun() }

// FindRoot looks upwards from startDir for a directory holding jot data.
func FindRoot(startDir string) (string, error) { return platform.FindRoot(startDir) }
