// Package fs stores each key as a file inside a directory, optionally
// versioned with git.
//
// Key "notes" with the default extension lives at <dir>/notes.json. Writes are
// atomic (temp file + rename) and writers are serialized across processes by
// a lockfile next to the data.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/jot/pkg/git"
	"github.com/aretw0/jot/pkg/kv"
)

const (
	// DefaultExt is appended to keys to form file names.
	DefaultExt = ".json"

	// DefaultSystemDir holds internal state and names the lockfile.
	DefaultSystemDir = ".jot"
)

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	Ext       string // e.g. ".json", ".yaml", ".cbor"
	SystemDir string // e.g. ".jot"; the lockfile is SystemDir + ".lock"
	MustExist bool
	AutoInit  bool // run git init when Versioning is on and Path is not a repo
	// Versioning commits every write with git.
	Versioning bool
	ReadOnly   bool
	Logger     *slog.Logger
	// ErrorHandler receives watcher errors. Nil logs them instead.
	ErrorHandler func(error)
}

// Store implements kv.Store on a directory.
type Store struct {
	Path   string
	git    *git.Client
	config Config

	mu            sync.RWMutex
	watcherActive bool
	commits       int
}

// NewStore creates a filesystem-backed store. Call Initialize before use.
func NewStore(config Config) *Store {
	if config.Ext == "" {
		config.Ext = DefaultExt
	}
	if !strings.HasPrefix(config.Ext, ".") {
		config.Ext = "." + config.Ext
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	return &Store{
		Path:   config.Path,
		git:    git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config: config,
	}
}

// Initialize prepares the directory (mkdir, git init).
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("storage path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat storage path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", s.Path)
		}
	} else if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	if !s.config.Versioning || s.config.ReadOnly {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !s.git.IsRepo() {
		if !s.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", s.Path)
		}
		if err := s.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := s.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod && wasNewRepo {
		if _, err := s.git.CommitFile(".gitignore", git.FormatMessage(git.CommitTypeChore, "", "ignore "+s.config.SystemDir)); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

// ensureIgnore keeps the system directory and the lockfile out of history.
func (s *Store) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(s.Path, ".gitignore")
	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, entry := range []string{s.config.SystemDir + "/", s.config.SystemDir + ".lock"} {
		if !present[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	var b strings.Builder
	b.Write(content)
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		b.WriteString("\n")
	}
	for _, entry := range missing {
		b.WriteString(entry + "\n")
	}
	if err := writeFileAtomic(ignorePath, []byte(b.String()), 0644); err != nil {
		return false, err
	}
	return true, nil
}

// Get reads the file backing key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.filename(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kv.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Set atomically replaces the file backing key and commits it when
// versioning is on.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return kv.ErrReadOnly
	}
	path, err := s.filename(key)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return s.commit(filepath.Base(path), git.FormatMessage(git.CommitTypeFeat, key, "update "+key))
}

// Remove deletes the file backing key. A missing file is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return kv.ErrReadOnly
	}
	path, err := s.filename(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return s.commit(filepath.Base(path), git.FormatMessage(git.CommitTypeChore, key, "remove "+key))
}

// Lock takes the lockfile shared by every process using this directory.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	if s.config.ReadOnly {
		return func() {}, nil
	}
	return s.git.Lock(ctx)
}

func (s *Store) commit(file, msg string) error {
	if !s.config.Versioning {
		return nil
	}
	committed, err := s.git.CommitFile(file, msg)
	if err != nil {
		return fmt.Errorf("failed to commit %s: %w", file, err)
	}
	if committed {
		s.mu.Lock()
		s.commits++
		s.mu.Unlock()
		if s.config.Logger != nil {
			s.config.Logger.Debug("committed", "file", file, "message", msg)
		}
	}
	return nil
}

// filename maps key to a file directly inside Path.
func (s *Store) filename(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.Path, key+s.config.Ext), nil
}

var (
	_ kv.Store   = (*Store)(nil)
	_ kv.Locker  = (*Store)(nil)
	_ kv.Watcher = (*Store)(nil)
)
