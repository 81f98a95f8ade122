// Package kv defines the host key-value storage the note collection lives in.
//
// A Store is deliberately small (Get/Set/Remove of opaque values) so that any
// local storage area can host the collection: a directory, an in-memory LRU,
// a SQL table or a redis database. Richer behavior is exposed through the
// optional Locker and Watcher capabilities, discovered with type assertions.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("key not found")

	// ErrUnavailable is returned when there is no persistent store to talk to,
	// e.g. a non-interactive run or an unreachable server.
	ErrUnavailable = errors.New("storage backend unavailable")
)

// Store is a minimal key-value storage area.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Locker is implemented by stores able to serialize writers.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// ChangeType classifies an observed change.
type ChangeType string

const (
	ChangeSet    ChangeType = "SET"
	ChangeRemove ChangeType = "REMOVE"
)

// Change reports that a key was written or removed, possibly by another process.
type Change struct {
	Key  string
	Type ChangeType
}

// Watcher is implemented by stores that can observe their keys.
// The channel is closed when ctx is done.
type Watcher interface {
	Watch(ctx context.Context, key string) (<-chan Change, error)
}

// ErrReadOnly is returned by writes against a store opened read-only.
var ErrReadOnly = errors.New("storage is read-only")
