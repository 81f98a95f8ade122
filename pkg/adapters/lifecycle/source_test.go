package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/lifecycle"
	"github.com/aretw0/jot/pkg/core"
)

func TestSource_ForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 1)
	src := lifecycle.NewSource(func(context.Context) (<-chan core.Event, error) {
		return in, nil
	})
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, ID: "notes", Timestamp: 1}
	select {
	case e := <-src.Events():
		assert.Equal(t, core.Event{Type: core.EventModify, ID: "notes", Timestamp: 1}, e)
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}

	close(in)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "source should close when the watch channel closes")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for close")
	}
}

func TestSource_WatchError(t *testing.T) {
	src := lifecycle.NewSource(func(context.Context) (<-chan core.Event, error) {
		return nil, core.ErrUnsupported
	})
	err := src.Start(context.Background())
	assert.True(t, errors.Is(err, core.ErrUnsupported))

	_, ok := <-src.Events()
	assert.False(t, ok)
}
