// Package store implements the Note Store: the whole note collection kept as
// a single serialized value under one key of a kv.Store.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/kv"
)

const (
	// NotesKey is the key holding the serialized note collection.
	NotesKey = "notes"
	// UserKey is the key holding the logged-in user.
	UserKey = "user"
)

// Config holds the configuration for a BlobStore.
type Config struct {
	KV     kv.Store
	Codec  Codec  // defaults to JSON
	Key    string // defaults to NotesKey
	Logger *slog.Logger

	// Strict makes Load fail with core.ErrMalformedData on undecodable data
	// instead of treating it as an empty collection.
	Strict bool

	// ReadOnly makes Save fail with core.ErrReadOnly.
	ReadOnly bool
}

// BlobStore implements core.NoteStore on top of a kv.Store.
type BlobStore struct {
	kv       kv.Store
	codec    Codec
	key      string
	logger   *slog.Logger
	strict   bool
	readOnly bool

	mu        sync.Mutex
	loads     int
	saves     int
	recovered int
	lastWrite *time.Time
}

// NewBlobStore creates a new BlobStore.
func NewBlobStore(cfg Config) *BlobStore {
	if cfg.Codec == nil {
		cfg.Codec = JSONCodec{}
	}
	if cfg.Key == "" {
		cfg.Key = NotesKey
	}
	return &BlobStore{
		kv:       cfg.KV,
		codec:    cfg.Codec,
		key:      cfg.Key,
		logger:   cfg.Logger,
		strict:   cfg.Strict,
		readOnly: cfg.ReadOnly,
	}
}

// Load returns the stored collection in saved order.
// Missing data reads as an empty collection. Undecodable data reads as empty
// too, unless the store is strict. An unavailable backend returns an empty
// collection together with an error wrapping core.ErrStorageUnavailable, so
// that callers never write a collection derived from a failed read.
func (s *BlobStore) Load(ctx context.Context) ([]core.Note, error) {
	s.count(&s.loads)

	data, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return []core.Note{}, nil
	case errors.Is(err, kv.ErrUnavailable):
		if s.logger != nil {
			s.logger.Warn("storage unavailable, reading empty collection", "key", s.key)
		}
		return []core.Note{}, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Note{}, nil
	}

	var notes []core.Note
	if err := s.codec.Decode(data, &notes); err != nil {
		if s.strict {
			return nil, fmt.Errorf("%w: %w", core.ErrMalformedData, err)
		}
		s.count(&s.recovered)
		if s.logger != nil {
			s.logger.Warn("stored notes are malformed, reading empty collection", "key", s.key, "error", err)
		}
		return []core.Note{}, nil
	}

	return normalize(notes), nil
}

// Save overwrites the stored collection with notes.
// Against an unavailable backend it is a silent no-op.
func (s *BlobStore) Save(ctx context.Context, notes []core.Note) error {
	if s.readOnly {
		return core.ErrReadOnly
	}

	data, err := s.codec.Encode(normalize(append([]core.Note(nil), notes...)))
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("writing notes", "key", s.key, "count", len(notes), "bytes", len(data))
	}

	if err := s.kv.Set(ctx, s.key, data); err != nil {
		if errors.Is(err, kv.ErrUnavailable) {
			if s.logger != nil {
				s.logger.Warn("storage unavailable, dropping write", "key", s.key)
			}
			return nil
		}
		if errors.Is(err, kv.ErrReadOnly) {
			return core.ErrReadOnly
		}
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}

	s.mu.Lock()
	s.saves++
	now := time.Now()
	s.lastWrite = &now
	s.mu.Unlock()
	return nil
}

// Clear removes the stored collection.
func (s *BlobStore) Clear(ctx context.Context) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	err := s.kv.Remove(ctx, s.key)
	switch {
	case err == nil, errors.Is(err, kv.ErrUnavailable):
		return nil
	case errors.Is(err, kv.ErrReadOnly):
		return core.ErrReadOnly
	}
	return fmt.Errorf("failed to remove %s: %w", s.key, err)
}

// Lock serializes writers through the backend when it supports locking.
// Otherwise it returns a no-op unlock.
func (s *BlobStore) Lock(ctx context.Context) (func(), error) {
	l, ok := s.kv.(kv.Locker)
	if !ok {
		return func() {}, nil
	}
	return l.Lock(ctx)
}

// Watch reports changes of the collection key made by any writer.
func (s *BlobStore) Watch(ctx context.Context) (<-chan core.Event, error) {
	w, ok := s.kv.(kv.Watcher)
	if !ok {
		return nil, fmt.Errorf("watch: %w", core.ErrUnsupported)
	}

	changes, err := w.Watch(ctx, s.key)
	if err != nil {
		return nil, err
	}

	out := make(chan core.Event, 16)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case c, ok := <-changes:
				if !ok {
					return nil
				}
				e := core.Event{Type: core.EventModify, ID: c.Key, Timestamp: time.Now().Unix()}
				if c.Type == kv.ChangeRemove {
					e.Type = core.EventDelete
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return out, nil
}

func (s *BlobStore) count(field *int) {
	s.mu.Lock()
	*field++
	s.mu.Unlock()
}

// normalize replaces nil slices with empty ones so that a loaded collection
// serializes back to the same bytes.
func normalize(notes []core.Note) []core.Note {
	if notes == nil {
		return []core.Note{}
	}
	for i := range notes {
		if notes[i].Tags == nil {
			notes[i].Tags = []string{}
		}
		if notes[i].History == nil {
			notes[i].History = []core.HistoryEntry{}
		}
	}
	return notes
}

var (
	_ core.NoteStore = (*BlobStore)(nil)
	_ core.Locker    = (*BlobStore)(nil)
	_ core.Watchable = (*BlobStore)(nil)
)
