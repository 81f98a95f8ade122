package memory

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Keys     int `json:"keys"`
	Capacity int `json:"capacity"`
	Sets     int `json:"sets"`
	Removes  int `json:"removes"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Keys:     s.entries.Len(),
		Capacity: s.capacity,
		Sets:     s.sets,
		Removes:  s.removes,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

// ComponentType implements introspection.Component.
func (Unavailable) ComponentType() string {
	return "unavailable"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
var _ introspection.Component = Unavailable{}
