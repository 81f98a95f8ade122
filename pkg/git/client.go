// Package git versions a storage directory with the git command line and
// provides the lockfile used to serialize writers across processes.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// lockRetry is the wait between attempts to create the lockfile.
	lockRetry = 10 * time.Millisecond

	// DefaultStaleLock is the age after which a lockfile is considered left
	// behind by a writer that died before releasing it.
	DefaultStaleLock = time.Minute
)

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir string
	Logger  *slog.Logger

	// StaleAfter is the lockfile age after which Lock breaks it.
	// Zero or negative disables stale lock recovery.
	StaleAfter time.Duration

	lockPath string
}

// NewClient creates a new git client for the given working directory.
// lockName is the lockfile name relative to workDir (e.g. ".jot.lock").
func NewClient(workDir, lockName string, logger *slog.Logger) *Client {
	if lockName == "" {
		lockName = ".jot.lock"
	}
	return &Client{
		WorkDir:    workDir,
		Logger:     logger,
		StaleAfter: DefaultStaleLock,
		lockPath:   lockName,
	}
}

// IsInstalled reports whether the git binary is on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Lock acquires the lockfile, retrying until ctx is done.
// A lockfile older than StaleAfter is removed and the acquisition retried.
// The returned function releases it.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)

	for {
		// O_EXCL makes creation the atomic test-and-set
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		if c.breakStale(fullLockPath) {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock %s: %w", fullLockPath, ctx.Err())
		case <-time.After(lockRetry):
		}
	}
}

// breakStale removes the lockfile when it is older than StaleAfter.
func (c *Client) breakStale(path string) bool {
	if c.StaleAfter <= 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		// released between the create attempt and the stat
		return os.IsNotExist(err)
	}
	age := time.Since(info.ModTime())
	if age < c.StaleAfter {
		return false
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return false
	}
	if c.Logger != nil {
		c.Logger.Warn("removed stale lockfile", "path", path, "age", age.Round(time.Second))
	}
	return true
}

// Run executes a raw git command in the working directory.
// NOTE: It does NOT acquire the lock. The caller must manage that via Client.Lock().
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// IsRepo reports whether WorkDir is inside a git work tree.
func (c *Client) IsRepo() bool {
	out, err := c.Run("rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Init initializes a new git repository. Re-running it is harmless.
func (c *Client) Init() error {
	_, err := c.Run("init")
	return err
}

// Add stages files, including their removal when they no longer exist.
func (c *Client) Add(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "-A", "--"}, files...)
	_, err := c.Run(args...)
	return err
}

// Commit records staged changes. Identity is pinned so commits work on
// machines without a configured user.
func (c *Client) Commit(msg string) error {
	_, err := c.Run("-c", "user.name=jot", "-c", "user.email=jot@localhost", "commit", "-m", msg)
	return err
}

// Status returns the porcelain status of the repo, optionally limited to paths.
func (c *Client) Status(paths ...string) (string, error) {
	args := append([]string{"status", "--porcelain", "--"}, paths...)
	return c.Run(args...)
}

// Log returns the one-line log of the repo, newest first.
func (c *Client) Log() (string, error) {
	return c.Run("log", "--oneline")
}

// CommitFile stages file and commits it with msg when it actually changed.
// It reports whether a commit was made.
func (c *Client) CommitFile(file, msg string) (bool, error) {
	if err := c.Add(file); err != nil {
		return false, err
	}
	status, err := c.Status(file)
	if err != nil {
		return false, err
	}
	if status == "" {
		return false, nil
	}
	if err := c.Commit(msg); err != nil {
		return false, err
	}
	return true, nil
}
