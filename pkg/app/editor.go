package app

import (
	"context"
	"sync"

	"tableflip.dev/curate/pkg/diff"
	"tableflip.dev/curate/pkg/gallery"
	"tableflip.dev/curate/pkg/rows"
	"tableflip.dev/curate/pkg/staged"
)

// Mutator persists a save payload. Implementations own transport, retries
// and failure reporting. next is the collection as the server will hold it
// once p is applied.
type Mutator interface {
	Mutate(ctx context.Context, p diff.Payload, next gallery.Collection) error
}

// MutatorFunc adapts a function to Mutator.
type MutatorFunc func(ctx context.Context, p diff.Payload, next gallery.Collection) error

// Mutate calls f.
func (f MutatorFunc) Mutate(ctx context.Context, p diff.Payload, next gallery.Collection) error {
	return f(ctx, p, next)
}

// Editor is the handle a UI holds for one collection under edit. It swaps
// staged states atomically and never holds its lock across a save, so local
// edits keep flowing while a mutation is in flight.
type Editor struct {
	mu     sync.Mutex
	state  *staged.State
	server gallery.Collection
}

// NewEditor wraps a hydrated state and the server copy it was built from.
func NewEditor(state *staged.State, server gallery.Collection) *Editor {
	return &Editor{state: state, server: server.Clone()}
}

// State returns the current staged state. States are immutable, so the
// caller may keep it as long as it likes.
func (e *Editor) State() *staged.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Server returns the last known server copy.
func (e *Editor) Server() gallery.Collection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.server.Clone()
}

// Apply runs one logical edit against the current state. A returned error
// leaves the state as it was.
func (e *Editor) Apply(edit func(*staged.State) (*staged.State, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, err := edit(e.state)
	if err != nil {
		return err
	}
	if next != nil {
		e.state = next
	}
	return nil
}

// Update is Apply for edits that cannot fail.
func (e *Editor) Update(edit func(*staged.State) *staged.State) {
	_ = e.Apply(func(s *staged.State) (*staged.State, error) {
		return edit(s), nil
	})
}

// Rows builds gallery rows for the current state.
func (e *Editor) Rows(opts rows.GalleryOptions) rows.Result {
	return e.State().Rows(opts)
}

// Payload diffs the current state against the last known server copy.
func (e *Editor) Payload() diff.Payload {
	e.mu.Lock()
	st, server := e.state, e.server
	e.mu.Unlock()
	return diff.Compute(st, server)
}

// Save diffs the state as it is now and hands the payload to m. On success
// the server copy advances to what was sent; the staged state is never
// touched, so a failed save loses nothing and a retry recomputes from the
// latest edits.
func (e *Editor) Save(ctx context.Context, m Mutator) (diff.Payload, error) {
	e.mu.Lock()
	st, server := e.state, e.server
	e.mu.Unlock()

	p := diff.Compute(st, server)
	next := diff.Apply(st, p)
	if err := m.Mutate(ctx, p, next); err != nil {
		return p, err
	}

	e.mu.Lock()
	e.server = next
	e.mu.Unlock()
	return p, nil
}
