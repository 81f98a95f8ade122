package rediskv

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Addr     string `json:"addr"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
	Writes   int    `json:"writes"`
	Watchers int    `json:"watchers"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	opts := s.client.Options()
	return StoreState{
		Addr:     opts.Addr,
		DB:       opts.DB,
		Prefix:   s.prefix,
		Writes:   s.writes,
		Watchers: s.watchers,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "redis"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
