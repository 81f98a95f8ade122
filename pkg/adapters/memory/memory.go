// Package memory provides in-process kv.Store implementations: a bounded
// LRU store for tests and ephemeral sessions, and Unavailable, which stands
// in for hosts with no persistent storage at all.
package memory

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aretw0/jot/pkg/kv"
)

// DefaultCapacity bounds the number of keys kept by a Store.
const DefaultCapacity = 1000

// Store is an LRU-bounded in-memory kv.Store. Values are copied in and out.
type Store struct {
	mu      sync.RWMutex
	entries *lru.Cache[string, []byte]
	// writeMu serializes load-modify-save cycles (kv.Locker).
	writeMu  sync.Mutex
	capacity int
	sets     int
	removes  int
}

// New creates a Store holding at most capacity keys. capacity <= 0 means DefaultCapacity.
func New(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{entries: entries, capacity: capacity}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries.Get(key)
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.Add(key, append([]byte(nil), value...))
	s.sets++
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.Remove(key)
	s.removes++
	return nil
}

// Lock implements kv.Locker. It honors ctx while waiting.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	acquired := make(chan struct{})
	go func() {
		s.writeMu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return s.writeMu.Unlock, nil
	case <-ctx.Done():
		// release the lock once the pending acquisition completes
		go func() {
			<-acquired
			s.writeMu.Unlock()
		}()
		return nil, ctx.Err()
	}
}

// Unavailable is a kv.Store for hosts without persistent storage.
// Every operation fails with kv.ErrUnavailable.
type Unavailable struct{}

func (Unavailable) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, kv.ErrUnavailable
}

func (Unavailable) Set(ctx context.Context, key string, value []byte) error {
	return kv.ErrUnavailable
}

func (Unavailable) Remove(ctx context.Context, key string) error {
	return kv.ErrUnavailable
}

var (
	_ kv.Store  = (*Store)(nil)
	_ kv.Locker = (*Store)(nil)
	_ kv.Store  = Unavailable{}
)
