package store

import (
	"time"

	"github.com/aretw0/introspection"
)

// BlobStoreState exposes internal state for observability.
type BlobStoreState struct {
	Key       string     `json:"key"`
	Format    string     `json:"format"`
	Backend   string     `json:"backend"`
	Strict    bool       `json:"strict"`
	ReadOnly  bool       `json:"read_only"`
	Loads     int        `json:"loads"`
	Saves     int        `json:"saves"`
	Recovered int        `json:"recovered_malformed"`
	LastWrite *time.Time `json:"last_write,omitempty"`
	KV        any        `json:"kv,omitempty"`
}

// State implements introspection.Introspectable.
func (s *BlobStore) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	backend := "kv"
	var kvState any
	if comp, ok := s.kv.(introspection.Component); ok {
		backend = comp.ComponentType()
	}
	if in, ok := s.kv.(introspection.Introspectable); ok {
		kvState = in.State()
	}

	return BlobStoreState{
		Key:       s.key,
		Format:    s.codec.Name(),
		Backend:   backend,
		Strict:    s.strict,
		ReadOnly:  s.readOnly,
		Loads:     s.loads,
		Saves:     s.saves,
		Recovered: s.recovered,
		LastWrite: s.lastWrite,
		KV:        kvState,
	}
}

// ComponentType implements introspection.Component.
func (s *BlobStore) ComponentType() string {
	return "blob-store"
}

var _ introspection.Introspectable = (*BlobStore)(nil)
var _ introspection.Component = (*BlobStore)(nil)
