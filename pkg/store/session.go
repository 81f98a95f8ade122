package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/kv"
)

// SessionStore keeps the logged-in user under UserKey.
type SessionStore struct {
	kv     kv.Store
	codec  Codec
	logger *slog.Logger
}

// NewSessionStore creates a SessionStore. A nil codec means JSON.
func NewSessionStore(store kv.Store, codec Codec, logger *slog.Logger) *SessionStore {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &SessionStore{kv: store, codec: codec, logger: logger}
}

// Current returns the stored user, or core.ErrNoUser when there is none.
// Unreadable session data counts as no user.
func (s *SessionStore) Current(ctx context.Context) (core.User, error) {
	data, err := s.kv.Get(ctx, UserKey)
	if errors.Is(err, kv.ErrNotFound) || errors.Is(err, kv.ErrUnavailable) {
		return core.User{}, core.ErrNoUser
	}
	if err != nil {
		return core.User{}, fmt.Errorf("failed to read session: %w", err)
	}

	var u core.User
	if err := s.codec.Decode(data, &u); err != nil || u.ID == "" {
		if s.logger != nil {
			s.logger.Warn("discarding unreadable session", "error", err)
		}
		return core.User{}, core.ErrNoUser
	}
	return u, nil
}

// Set stores u as the logged-in user.
func (s *SessionStore) Set(ctx context.Context, u core.User) error {
	data, err := s.codec.Encode(u)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Set(ctx, UserKey, data); err != nil && !errors.Is(err, kv.ErrUnavailable) {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear forgets the logged-in user.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, UserKey); err != nil && !errors.Is(err, kv.ErrUnavailable) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
