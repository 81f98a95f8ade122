package core

import "context"

// NoteStore persists the whole note collection as one unit.
// Load returns the notes in the order they were last saved; Save replaces
// the collection wholesale. There is no merge: the last writer wins.
type NoteStore interface {
	Load(ctx context.Context) ([]Note, error)
	Save(ctx context.Context, notes []Note) error
}

// Locker is implemented by stores that can serialize a load-modify-save
// cycle across writers. The returned function releases the lock.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Watchable is implemented by stores that can report external changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
