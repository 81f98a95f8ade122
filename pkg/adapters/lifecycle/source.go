// Package lifecycle exposes note changes as a lifecycle event source.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/jot/pkg/core"
)

// WatchFunc subscribes to note changes until ctx is done.
type WatchFunc func(ctx context.Context) (<-chan core.Event, error)

type noteSource struct {
	watch WatchFunc
	out   chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits note change events.
// The subscription is made on Start, so a failing watch surfaces there.
func NewSource(watch WatchFunc) lifecycle.Source {
	return &noteSource{
		watch: watch,
		out:   make(chan lifecycle.Event),
	}
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *noteSource) Start(ctx context.Context) error {
	events, err := s.watch(ctx)
	if err != nil {
		close(s.out)
		return fmt.Errorf("failed to watch notes: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				// core.Event satisfies lifecycle.Event through String()
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
