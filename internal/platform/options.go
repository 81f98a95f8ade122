package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/kv"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterMemory = "memory"
	AdapterSQLite = "sqlite"
	AdapterRedis  = "redis"
	// AdapterNone models a host without persistent storage.
	AdapterNone = "none"
)

// RedisConfig addresses the redis adapter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// options holds the internal configuration for a Notebook.
type options struct {
	logger  *slog.Logger
	adapter string
	format  string

	historyCap    *int
	requireFields *bool
	clock         func() time.Time
	ids           core.IDGenerator

	// versioning is nil when not configured: it is then detected from the
	// presence of a .git directory.
	versioning   *bool
	autoInit     bool
	mustExist    bool
	readOnly     bool
	strict       bool
	devSafety    bool
	forceTemp    bool
	systemDir    string
	errorHandler func(error)

	cacheSize  int
	sqlitePath string
	redis      RedisConfig

	kv        kv.Store
	noteStore core.NoteStore
}

// Option defines a functional option for configuring jot.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		format:    "json",
		autoInit:  true,
		devSafety: true,
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the storage adapter by name ("fs", "memory", "sqlite",
// "redis" or "none"). Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFormat selects the codec of the stored collection ("json", "yaml",
// "cbor"). Defaults to "json".
func WithFormat(name string) Option {
	return func(o *options) {
		o.format = name
	}
}

// WithHistoryCap sets how many history entries a note keeps. Zero means uncapped.
func WithHistoryCap(n int) Option {
	return func(o *options) {
		o.historyCap = &n
	}
}

// WithRequireFields toggles title/content validation on create.
func WithRequireFields(required bool) Option {
	return func(o *options) {
		o.requireFields = &required
	}
}

// WithClock overrides the time source of the service.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithIDGenerator overrides how note and history ids are minted.
func WithIDGenerator(ids core.IDGenerator) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// WithVersioning commits every write of the fs adapter with git.
// When not set, versioning is on only if the directory is already a git repo.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = &enabled
	}
}

// WithAutoInit creates the storage directory (and git repo when versioning)
// if missing. Defaults to true.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithMustExist requires the storage directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly rejects every write with core.ErrReadOnly.
// Read-only runs bypass the dev sandbox since they cannot damage data.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithStrict makes undecodable stored data an error instead of an empty collection.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`: by default the storage directory is re-rooted under the system
// temp dir so development runs never touch real notes.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithSystemDir sets the hidden directory name of the fs adapter (default ".jot").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithWatcherErrorHandler receives runtime errors of the fs watcher, which
// are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithCacheSize bounds the number of keys of the memory adapter.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithSQLitePath sets the database file of the sqlite adapter.
// Defaults to jot.db inside the storage directory.
func WithSQLitePath(path string) Option {
	return func(o *options) {
		o.sqlitePath = path
	}
}

// WithRedis configures the redis adapter.
func WithRedis(cfg RedisConfig) Option {
	return func(o *options) {
		o.redis = cfg
	}
}

// WithKV injects a key-value store, skipping adapter construction.
func WithKV(store kv.Store) Option {
	return func(o *options) {
		o.kv = store
	}
}

// WithNoteStore injects the note store used by the service (e.g. a mock).
// Sessions then live in the configured KV.
func WithNoteStore(store core.NoteStore) Option {
	return func(o *options) {
		o.noteStore = store
	}
}
