// Package core holds the note domain: entities, storage contracts and the
// Service that enforces the note lifecycle on top of a NoteStore.
package core

import (
	"fmt"
	"time"
)

// Category is one value of the closed set of note categories.
type Category string

const (
	CategoryPersonal Category = "Personal"
	CategoryWork     Category = "Work"
	CategoryStudy    Category = "Study"
	CategoryHealth   Category = "Health"
	CategoryFinance  Category = "Finance"
	CategoryTravel   Category = "Travel"
	CategoryIdeas    Category = "Ideas"
	CategoryOther    Category = "Other"
)

// Categories returns the valid categories in display order.
// The returned slice is a fresh copy.
func Categories() []Category {
	return []Category{
		CategoryPersonal,
		CategoryWork,
		CategoryStudy,
		CategoryHealth,
		CategoryFinance,
		CategoryTravel,
		CategoryIdeas,
		CategoryOther,
	}
}

// Valid reports whether c belongs to the closed enumeration.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves s case-insensitively against the known categories.
func ParseCategory(s string) (Category, error) {
	for _, known := range Categories() {
		if equalFold(string(known), s) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// HistoryEntry is an immutable snapshot of a note's content.
type HistoryEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Content   string    `json:"content" yaml:"content"`
}

// Note is the only persisted entity.
type Note struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Content     string         `json:"content" yaml:"content"`
	CreatedAt   time.Time      `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" yaml:"updatedAt"`
	Category    Category       `json:"category" yaml:"category"`
	Tags        []string       `json:"tags" yaml:"tags"`
	CreatorID   string         `json:"creatorId" yaml:"creatorId"`
	CreatorName string         `json:"creatorName" yaml:"creatorName"`
	History     []HistoryEntry `json:"history" yaml:"history"`
}

// Clone returns a deep copy of n.
func (n Note) Clone() Note {
	out := n
	out.Tags = append(make([]string, 0, len(n.Tags)), n.Tags...)
	out.History = append(make([]HistoryEntry, 0, len(n.History)), n.History...)
	return out
}

// User identifies the logged-in person. Only ID and Name flow into notes.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// NewNote carries the caller-supplied fields of Service.Create.
type NewNote struct {
	Title       string
	Content     string
	Category    Category
	Tags        []string
	CreatorID   string
	CreatorName string
}

// Patch is a partial update. A nil field is left untouched.
// Identity, timestamps, creator and history cannot be patched.
type Patch struct {
	Title    *string
	Content  *string
	Category *Category
	Tags     *[]string
}

// IsEmpty reports whether the patch carries no field at all.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil && p.Tags == nil
}

// EventType represents the kind of change observed on the note collection.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of the stored collection.
// ID is the storage key that changed (e.g. "notes").
type Event struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id"`
	Timestamp int64     `json:"timestamp"` // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
