package sqlkv

import (
	"context"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path   string   `json:"path,omitempty"`
	Keys   []string `json:"keys"`
	Writes int      `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	keys, _ := s.Keys(context.Background())
	s.mu.Lock()
	defer s.mu.Unlock()
	return StoreState{Path: s.path, Keys: keys, Writes: s.writes}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
