package steplocal

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/NetPo4ki/go-steplocal/internal/gid"
)

// ErrNotInScope reports an access with no value installed for the cell
// on the calling goroutine.
var ErrNotInScope = errors.New("steplocal: value not in scope")

type Option func(*Options)

type Options struct {
	// Name labels the cell in observer events and error text. Defaults
	// to the cell's instance id.
	Name string
	// Observer receives lifecycle events from scopes opened on the
	// cell.
	Observer Observer
}

func WithName(name string) Option { return func(o *Options) { o.Name = name } }

func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }

// Cell is a process-wide identity token for scope-bounded values of
// type T. It is a key, not a container: the value itself is owned by a
// Scoped wrapper and is only installed here for the duration of a
// single synchronous step. Declare cells as package-level variables.
type Cell[T any] struct {
	id   uuid.UUID
	name string
	obs  Observer
	reg  registry[T]
}

// New creates a cell.
func New[T any](optFns ...Option) *Cell[T] {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	c := &Cell[T]{id: uuid.New(), name: opts.Name, obs: opts.Observer}
	if c.name == "" {
		c.name = c.id.String()
	}
	return c
}

// Name returns the cell's label.
func (c *Cell[T]) Name() string { return c.name }

// ID returns the cell's unique instance id.
func (c *Cell[T]) ID() uuid.UUID { return c.id }

// With calls f with the value installed for the calling goroutine.
// Calling it outside an active scope for this cell is a programming
// error and panics with an error wrapping ErrNotInScope; use TryWith to
// tolerate that.
func (c *Cell[T]) With(f func(*T)) {
	b := c.reg.peek(gid.Get())
	if b == nil || !b.ok {
		panic(fmt.Errorf("cell %q: %w", c.name, ErrNotInScope))
	}
	f(&b.value)
}

// TryWith calls f like With but reports ErrNotInScope instead of
// panicking.
func (c *Cell[T]) TryWith(f func(*T)) error {
	b := c.reg.peek(gid.Get())
	if b == nil || !b.ok {
		return fmt.Errorf("cell %q: %w", c.name, ErrNotInScope)
	}
	f(&b.value)
	return nil
}

// Get returns a copy of the installed value. It panics like With
// outside a scope.
func (c *Cell[T]) Get() T {
	var v T
	c.With(func(p *T) { v = *p })
	return v
}

// With calls f with the value installed for c on the calling goroutine
// and returns f's result. It panics like Cell.With outside a scope.
func With[T, R any](c *Cell[T], f func(*T) R) R {
	var r R
	c.With(func(p *T) { r = f(p) })
	return r
}

// TryWith is With returning ErrNotInScope instead of panicking.
func TryWith[T, R any](c *Cell[T], f func(*T) R) (R, error) {
	var r R
	err := c.TryWith(func(p *T) { r = f(p) })
	return r, err
}
