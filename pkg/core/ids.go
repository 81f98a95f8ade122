package core

import "github.com/google/uuid"

// IDGenerator mints identifiers for notes and history entries.
type IDGenerator interface {
	NoteID() string
	HistoryID() string
}

// UUIDGenerator produces random, collision-free ids such as
// "note-6f1c...". It replaces the wall-clock ids of earlier versions.
type UUIDGenerator struct{}

func (UUIDGenerator) NoteID() string {
	return "note-" + uuid.NewString()
}

func (UUIDGenerator) HistoryID() string {
	return "history-" + uuid.NewString()
}
