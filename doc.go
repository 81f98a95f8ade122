// Package jot is the composition root of jot, a personal note keeper.
//
// It connects the note service (pkg/core) with a storage adapter using the
// hexagonal layout: the whole note collection is one serialized value kept
// under a single key of a small key-value store, so any local storage area
// can host it.
//
// Features:
//
//   - Notes with a category from a closed set, tags and a bounded content history.
//   - Filtering by owner, category, text and title glob, with sorting and pagination.
//   - Adapters: a directory (optionally versioned with git), an in-memory LRU,
//     a sqlite table and redis.
//   - Codecs: JSON (same field names as the web client), YAML and CBOR.
//   - Mocked sessions: login, registration and logout that wipes local notes.
//
// Usage:
//
//	nb, err := jot.New("~/.jot",
//		jot.WithFormat("yaml"),
//		jot.WithLogger(logger),
//	)
//	defer nb.Close()
//
//	user, err := nb.Session.Login(ctx, "ana@example.com", "secret")
//	note, err := nb.Service.Create(ctx, core.NewNote{
//		Title:     "Groceries",
//		Content:   "milk and eggs #shopping",
//		CreatorID: user.ID,
//	})
package jot
