package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultHistoryCap is the number of history entries kept per note.
	// Zero disables trimming.
	DefaultHistoryCap = 10

	// DefaultRequireFields makes Create reject an empty title or content.
	DefaultRequireFields = true
)

// Service handles the note lifecycle on top of a NoteStore.
// Every mutation loads the whole collection, changes it in memory and saves
// it back.
type Service struct {
	store         NoteStore
	logger        *slog.Logger
	historyCap    int
	requireFields bool
	now           func() time.Time
	ids           IDGenerator

	// mu serializes writers sharing this Service. Cross-process writers are
	// only serialized when the store implements Locker.
	mu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHistoryCap sets the maximum history length. Zero means uncapped.
func WithHistoryCap(n int) ServiceOption {
	return func(s *Service) {
		if n >= 0 {
			s.historyCap = n
		}
	}
}

// WithRequireFields toggles title/content validation on Create.
func WithRequireFields(required bool) ServiceOption {
	return func(s *Service) {
		s.requireFields = required
	}
}

// WithClock overrides the time source (useful for testing).
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how note and history ids are minted.
func WithIDGenerator(ids IDGenerator) ServiceOption {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithServiceLogger sets the logger for the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new Service.
func NewService(store NoteStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:         store,
		logger:        slog.Default(),
		historyCap:    DefaultHistoryCap,
		requireFields: DefaultRequireFields,
		now:           time.Now,
		ids:           UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories returns the closed set of valid categories.
func (s *Service) Categories() []Category {
	return Categories()
}

// ExtractTags returns the hashtags found in content.
func (s *Service) ExtractTags(content string) []string {
	return ExtractTags(content)
}

// List returns every stored note, unfiltered, in stored order.
func (s *Service) List(ctx context.Context) ([]Note, error) {
	notes, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Clone())
	}
	return out, nil
}

// Get returns the first note whose id matches. It returns ErrNotFound otherwise.
func (s *Service) Get(ctx context.Context, id string) (Note, error) {
	notes, err := s.load(ctx)
	if err != nil {
		return Note{}, fmt.Errorf("failed to load notes: %w", err)
	}
	idx := indexOf(notes, id)
	if idx < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return notes[idx].Clone(), nil
}

// History returns the history of a note, oldest first.
func (s *Service) History(ctx context.Context, id string) ([]HistoryEntry, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return n.History, nil
}

// Query filters, sorts and paginates the stored notes.
func (s *Service) Query(ctx context.Context, q Query) (Page, error) {
	notes, err := s.load(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("failed to load notes: %w", err)
	}
	return Apply(notes, q)
}

// Create validates in, assigns a fresh id and timestamps, seeds the history
// with the initial content and appends the note to the collection.
// A rejected note returns a *ValidationError and nothing is written.
func (s *Service) Create(ctx context.Context, in NewNote) (Note, error) {
	if err := s.validateNew(&in); err != nil {
		return Note{}, err
	}

	now := s.timestamp()
	note := Note{
		ID:          s.ids.NoteID(),
		Title:       in.Title,
		Content:     in.Content,
		CreatedAt:   now,
		UpdatedAt:   now,
		Category:    in.Category,
		Tags:        append([]string{}, in.Tags...),
		CreatorID:   in.CreatorID,
		CreatorName: in.CreatorName,
		History: []HistoryEntry{{
			ID:        s.ids.HistoryID(),
			Timestamp: now,
			Content:   in.Content,
		}},
	}

	err := s.mutate(ctx, func(notes []Note) ([]Note, bool, error) {
		return append(notes, note), true, nil
	})
	if err != nil {
		return Note{}, err
	}

	s.logger.Debug("note created", "id", note.ID, "creator", note.CreatorID)
	return note.Clone(), nil
}

// Update applies p to the note with the given id. A content change appends
// a history entry and trims the history to the configured cap. UpdatedAt is
// refreshed even when nothing else changes.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Note, error) {
	if p.Category != nil && !p.Category.Valid() {
		return Note{}, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", *p.Category), Err: ErrInvalidCategory}
	}

	var updated Note
	err := s.mutate(ctx, func(notes []Note) ([]Note, bool, error) {
		idx := indexOf(notes, id)
		if idx < 0 {
			return nil, false, fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		n := notes[idx].Clone()
		now := s.timestamp()

		if p.Content != nil && *p.Content != n.Content {
			n.History = append(n.History, HistoryEntry{
				ID:        s.ids.HistoryID(),
				Timestamp: now,
				Content:   *p.Content,
			})
			n.History = trimHistory(n.History, s.historyCap)
			n.Content = *p.Content
		}
		if p.Title != nil {
			n.Title = *p.Title
		}
		if p.Category != nil {
			n.Category = *p.Category
		}
		if p.Tags != nil {
			n.Tags = append([]string{}, (*p.Tags)...)
		}

		n.UpdatedAt = now
		if n.UpdatedAt.Before(n.CreatedAt) {
			n.UpdatedAt = n.CreatedAt
		}

		notes[idx] = n
		updated = n
		return notes, true, nil
	})
	if err != nil {
		return Note{}, err
	}

	s.logger.Debug("note updated", "id", id, "history", len(updated.History))
	return updated.Clone(), nil
}

// Delete removes the note with the given id. It reports whether a note was
// removed; an unknown id is a no-op and leaves storage untouched.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.mutate(ctx, func(notes []Note) ([]Note, bool, error) {
		kept := make([]Note, 0, len(notes))
		for _, n := range notes {
			if n.ID == id {
				removed = true
				continue
			}
			kept = append(kept, n)
		}
		return kept, removed, nil
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.logger.Debug("note deleted", "id", id)
	}
	return removed, nil
}

// Watch observes changes of the stored collection if the store supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, fmt.Errorf("watch: %w", ErrUnsupported)
	}
	return w.Watch(ctx)
}

func (s *Service) validateNew(in *NewNote) error {
	if s.requireFields {
		if strings.TrimSpace(in.Title) == "" {
			return &ValidationError{Field: "title", Reason: "is required"}
		}
		if strings.TrimSpace(in.Content) == "" {
			return &ValidationError{Field: "content", Reason: "is required"}
		}
	}
	if in.Category == "" {
		in.Category = CategoryOther
	}
	if !in.Category.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", in.Category), Err: ErrInvalidCategory}
	}
	return nil
}

// load reads the collection for a query. An unavailable store reads as empty.
func (s *Service) load(ctx context.Context) ([]Note, error) {
	notes, err := s.store.Load(ctx)
	if errors.Is(err, ErrStorageUnavailable) {
		return []Note{}, nil
	}
	return notes, err
}

// mutate runs one load-modify-save cycle. fn reports whether the collection
// changed; an unchanged collection is not written back.
// When the load reports ErrStorageUnavailable, fn still runs against an empty
// collection but nothing is saved: the stored collection is unknown and must
// not be overwritten.
func (s *Service) mutate(ctx context.Context, fn func([]Note) ([]Note, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.store.(Locker); ok {
		unlock, err := l.Lock(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire store lock: %w", err)
		}
		defer unlock()
	}

	degraded := false
	notes, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, ErrStorageUnavailable):
		degraded = true
		notes = []Note{}
	case err != nil:
		return fmt.Errorf("failed to load notes: %w", err)
	}

	next, changed, err := fn(notes)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if degraded {
		s.logger.Warn("storage unavailable, write dropped")
		return nil
	}

	if err := s.store.Save(ctx, next); err != nil {
		if errors.Is(err, ErrReadOnly) {
			return err
		}
		return fmt.Errorf("failed to save notes: %w", err)
	}
	return nil
}

// timestamp returns the current time at the millisecond precision of ISO-8601 strings.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func indexOf(notes []Note, id string) int {
	for i, n := range notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// trimHistory keeps the newest limit entries. limit <= 0 keeps everything.
func trimHistory(h []HistoryEntry, limit int) []HistoryEntry {
	if limit <= 0 || len(h) <= limit {
		return h
	}
	return append([]HistoryEntry(nil), h[len(h)-limit:]...)
}
