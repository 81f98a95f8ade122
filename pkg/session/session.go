// Package session implements the mocked authentication of jot.
//
// No credentials are checked: any non-empty email and password log in. The
// user is kept in the same storage area as the notes, so logging out wipes
// both.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/jot/pkg/core"
)

// LoginUserID is the id every login session receives.
const LoginUserID = "user-1"

// UserStore persists the current user.
type UserStore interface {
	Current(ctx context.Context) (core.User, error)
	Set(ctx context.Context, u core.User) error
	Clear(ctx context.Context) error
}

// Clearer drops a stored collection.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Manager handles login, registration and logout.
type Manager struct {
	users  UserStore
	notes  Clearer
	logger *slog.Logger
	newID  func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithUserID overrides how registered users are identified.
func WithUserID(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager creates a Manager. notes may be nil when there is no collection
// to wipe on logout.
func NewManager(users UserStore, notes Clearer, opts ...Option) *Manager {
	m := &Manager{
		users:  users,
		notes:  notes,
		logger: slog.Default(),
		newID:  func() string { return "user-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login starts a session for email. The display name is the part of the
// email before "@".
func (m *Manager) Login(ctx context.Context, email, password string) (core.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return core.User{}, &core.ValidationError{Field: "email", Reason: "is required"}
	}
	if password == "" {
		return core.User{}, &core.ValidationError{Field: "password", Reason: "is required"}
	}

	name, _, _ := strings.Cut(email, "@")
	u := core.User{ID: LoginUserID, Name: name, Email: email}
	if err := m.users.Set(ctx, u); err != nil {
		return core.User{}, fmt.Errorf("failed to start session: %w", err)
	}
	m.logger.Info("logged in", "user", u.ID, "email", u.Email)
	return u, nil
}

// Register creates a new user and starts a session for it.
func (m *Manager) Register(ctx context.Context, name, email, password string) (core.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return core.User{}, &core.ValidationError{Field: "name", Reason: "is required"}
	case email == "":
		return core.User{}, &core.ValidationError{Field: "email", Reason: "is required"}
	case password == "":
		return core.User{}, &core.ValidationError{Field: "password", Reason: "is required"}
	}

	u := core.User{ID: m.newID(), Name: name, Email: email}
	if err := m.users.Set(ctx, u); err != nil {
		return core.User{}, fmt.Errorf("failed to start session: %w", err)
	}
	m.logger.Info("registered", "user", u.ID, "email", u.Email)
	return u, nil
}

// Logout ends the session and drops the stored notes.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.users.Clear(ctx); err != nil {
		return err
	}
	if m.notes != nil {
		if err := m.notes.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear notes: %w", err)
		}
	}
	m.logger.Info("logged out")
	return nil
}

// Current returns the logged-in user or core.ErrNoUser.
func (m *Manager) Current(ctx context.Context) (core.User, error) {
	return m.users.Current(ctx)
}
