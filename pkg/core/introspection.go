package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	HistoryCap    int    `json:"history_cap"`
	RequireFields bool   `json:"require_fields"`
	StoreType     string `json:"store_type"`
	Store         any    `json:"store,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	storeType := "unknown"
	var storeState any
	if s.store != nil {
		storeType = "store"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
		if in, ok := s.store.(introspection.Introspectable); ok {
			storeState = in.State()
		}
	}

	return ServiceState{
		HistoryCap:    s.historyCap,
		RequireFields: s.requireFields,
		StoreType:     storeType,
		Store:         storeState,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
