package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/jot/pkg/kv"
)

// debounceWindow coalesces the burst of events a single atomic write produces.
const debounceWindow = 50 * time.Millisecond

// Watch reports changes of the file backing key, including those made by
// other processes. The channel is closed when ctx is done.
func (s *Store) Watch(ctx context.Context, key string) (<-chan kv.Change, error) {
	path, err := s.filename(key)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: atomic renames replace the inode of the file.
	if err := watcher.Add(s.Path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	out := make(chan kv.Change)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer s.setWatcherActive(false)
		defer watcher.Close()
		return s.watchLoop(ctx, watcher, filepath.Base(path), key, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.reportWatchError(fmt.Errorf("watcher stopped: %w", err))
	}))

	return out, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, base, key string, out chan<- kv.Change) error {
	var (
		pending kv.ChangeType
		timer   = time.NewTimer(debounceWindow)
	)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Base(event.Name) != base || isTempFile(event.Name) {
				continue
			}
			t := mapEvent(event)
			if t == "" {
				continue
			}
			if s.config.Logger != nil {
				s.config.Logger.Debug("file event", "name", event.Name, "op", event.Op.String())
			}
			pending = t
			timer.Reset(debounceWindow)

		case <-timer.C:
			change := kv.Change{Key: key, Type: pending}
			select {
			case out <- change:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			s.reportWatchError(wErr)
		}
	}
}

func mapEvent(event fsnotify.Event) kv.ChangeType {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return kv.ChangeSet
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return kv.ChangeRemove
	}
	return ""
}

func (s *Store) reportWatchError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
		return
	}
	if s.config.Logger != nil {
		s.config.Logger.Error("fsnotify error", "error", err)
	}
}
