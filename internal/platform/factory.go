package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/introspection"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/kv"
	"github.com/aretw0/jot/pkg/session"
	"github.com/aretw0/jot/pkg/store"
)

// Notebook wires the note service and the session manager to one storage area.
type Notebook struct {
	Service *core.Service
	Session *session.Manager

	// Path is where the data lives: a directory, database file or server address.
	Path    string
	Adapter string
	Format  string

	notes core.NoteStore
	kv    kv.Store
	close func() error
}

// New opens the notebook at uri.
// The uri is adapter-specific (a directory for fs and sqlite, ignored for
// memory, redis and none).
//
//	nb, err := jot.New("~/.jot", jot.WithFormat("yaml"))
func New(uri string, opts ...Option) (*Notebook, error) {
	return Open(context.Background(), uri, opts...)
}

// Open is New with a context bounding adapter initialization.
func Open(ctx context.Context, uri string, opts ...Option) (*Notebook, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	codec, err := store.CodecByName(o.format)
	if err != nil {
		return nil, err
	}

	b, err := openKV(ctx, uri, codec.Ext(), o)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", o.adapter, err)
	}

	notes := o.noteStore
	var blob *store.BlobStore
	if notes == nil {
		blob = store.NewBlobStore(store.Config{
			KV:       b.kv,
			Codec:    codec,
			Logger:   o.logger,
			Strict:   o.strict,
			ReadOnly: o.readOnly,
		})
		notes = blob
	}

	svcOpts := []core.ServiceOption{core.WithServiceLogger(o.logger)}
	if o.historyCap != nil {
		svcOpts = append(svcOpts, core.WithHistoryCap(*o.historyCap))
	}
	if o.requireFields != nil {
		svcOpts = append(svcOpts, core.WithRequireFields(*o.requireFields))
	}
	if o.clock != nil {
		svcOpts = append(svcOpts, core.WithClock(o.clock))
	}
	if o.ids != nil {
		svcOpts = append(svcOpts, core.WithIDGenerator(o.ids))
	}

	var clearer session.Clearer
	if c, ok := notes.(session.Clearer); ok {
		clearer = c
	}
	users := store.NewSessionStore(b.kv, codec, o.logger)

	return &Notebook{
		Service: core.NewService(notes, svcOpts...),
		Session: session.NewManager(users, clearer, session.WithLogger(o.logger)),
		Path:    b.path,
		Adapter: o.adapter,
		Format:  codec.Name(),
		notes:   notes,
		kv:      b.kv,
		close:   b.close,
	}, nil
}

// Close releases the storage backend.
func (n *Notebook) Close() error {
	if n.close == nil {
		return nil
	}
	return n.close()
}

// NotebookState exposes internal state for observability.
type NotebookState struct {
	Adapter string `json:"adapter"`
	Format  string `json:"format"`
	Path    string `json:"path,omitempty"`
	Service any    `json:"service"`
	User    string `json:"user,omitempty"`
}

// State implements introspection.Introspectable.
func (n *Notebook) State() any {
	st := NotebookState{
		Adapter: n.Adapter,
		Format:  n.Format,
		Path:    n.Path,
		Service: n.Service.State(),
	}
	if u, err := n.Session.Current(context.Background()); err == nil {
		st.User = u.ID
	} else if !errors.Is(err, core.ErrNoUser) {
		st.User = "error: " + err.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (n *Notebook) ComponentType() string {
	return "notebook"
}

var _ introspection.Introspectable = (*Notebook)(nil)
var _ introspection.Component = (*Notebook)(nil)
