package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/jot/pkg/adapters/fs"
	"github.com/aretw0/jot/pkg/adapters/memory"
	"github.com/aretw0/jot/pkg/adapters/rediskv"
	"github.com/aretw0/jot/pkg/adapters/sqlkv"
	"github.com/aretw0/jot/pkg/kv"
)

// DefaultRedisAddr is used when the redis adapter has no address.
const DefaultRedisAddr = "localhost:6379"

// backend is an opened key-value store and how to release it.
type backend struct {
	kv    kv.Store
	path  string
	close func() error
}

// openKV builds the key-value store named by o.adapter.
// The uri is adapter-specific: a directory for fs and sqlite, ignored otherwise.
func openKV(ctx context.Context, uri, ext string, o *options) (backend, error) {
	if o.kv != nil {
		return backend{kv: o.kv}, nil
	}

	switch o.adapter {
	case AdapterFS, "":
		return initFS(ctx, uri, ext, o)
	case AdapterMemory:
		m, err := memory.New(o.cacheSize)
		if err != nil {
			return backend{}, fmt.Errorf("failed to create memory store: %w", err)
		}
		return backend{kv: m}, nil
	case AdapterSQLite:
		return initSQLite(uri, o)
	case AdapterRedis:
		return initRedis(ctx, o)
	case AdapterNone:
		return backend{kv: memory.Unavailable{}}, nil
	default:
		return backend{}, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// sandboxed reports whether paths must be re-rooted into the dev sandbox.
// Read-only runs are inherently safe and bypass it.
func sandboxed(o *options) bool {
	bypass := o.readOnly || !o.devSafety
	return o.forceTemp || (IsDevRun() && !bypass)
}

func resolve(path string, o *options) string {
	sandbox := sandboxed(o)
	resolved := ResolvePath(path, sandbox)

	if IsDevRun() && o.logger != nil {
		switch {
		case sandbox:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "original_path", path, "resolved_path", resolved)
		case o.readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	return resolved
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(ctx context.Context, path, ext string, o *options) (backend, error) {
	resolved := resolve(path, o)

	// Versioning follows the directory unless configured: an existing git
	// repo keeps being versioned.
	versioning := false
	if o.versioning != nil {
		versioning = *o.versioning
	} else if hasFile(resolved, ".git") {
		versioning = true
		if o.logger != nil {
			o.logger.Debug("auto-detected versioning", "reason", ".git present")
		}
	}

	store := fs.NewStore(fs.Config{
		Path:         resolved,
		Ext:          ext,
		SystemDir:    o.systemDir,
		MustExist:    o.mustExist || !o.autoInit,
		AutoInit:     o.autoInit,
		Versioning:   versioning,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	})
	if err := store.Initialize(ctx); err != nil {
		return backend{}, err
	}
	return backend{kv: store, path: resolved}, nil
}

func initSQLite(dir string, o *options) (backend, error) {
	dbPath := o.sqlitePath
	if dbPath == "" {
		dbPath = filepath.Join(dir, "jot.db")
	}
	dbDir := resolve(filepath.Dir(dbPath), o)
	dbPath = filepath.Join(dbDir, filepath.Base(dbPath))

	if !o.readOnly && o.autoInit {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return backend{}, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	s, err := sqlkv.Open(dbPath, o.logger)
	if err != nil {
		return backend{}, err
	}
	var store kv.Store = s
	if o.readOnly {
		store = readOnly(s)
	}
	return backend{kv: store, path: dbPath, close: s.Close}, nil
}

// initRedis connects to redis. An unreachable server degrades to a store
// with no persistence instead of failing.
func initRedis(ctx context.Context, o *options) (backend, error) {
	addr := o.redis.Addr
	if addr == "" {
		addr = DefaultRedisAddr
	}
	s, err := rediskv.New(ctx, rediskv.Config{
		Addr:     addr,
		Password: o.redis.Password,
		DB:       o.redis.DB,
		Logger:   o.logger,
	})
	if errors.Is(err, kv.ErrUnavailable) {
		if o.logger != nil {
			o.logger.Warn("redis unavailable, notes will not persist", "addr", addr)
		}
		return backend{kv: memory.Unavailable{}, path: addr}, nil
	}
	if err != nil {
		return backend{}, err
	}
	var store kv.Store = s
	if o.readOnly {
		store = readOnly(s)
	}
	return backend{kv: store, path: addr, close: s.Close}, nil
}

// readOnly rejects writes of adapters that have no read-only mode of their own.
// A kv.Watcher stays observable. Locking is dropped since nothing is written.
func readOnly(s kv.Store) kv.Store {
	ro := readOnlyKV{s}
	if w, ok := s.(kv.Watcher); ok {
		return readOnlyWatchKV{readOnlyKV: ro, watcher: w}
	}
	return ro
}

type readOnlyKV struct {
	kv.Store
}

func (readOnlyKV) Set(context.Context, string, []byte) error { return kv.ErrReadOnly }
func (readOnlyKV) Remove(context.Context, string) error      { return kv.ErrReadOnly }

type readOnlyWatchKV struct {
	readOnlyKV
	watcher kv.Watcher
}

func (r readOnlyWatchKV) Watch(ctx context.Context, key string) (<-chan kv.Change, error) {
	return r.watcher.Watch(ctx, key)
}
