package steplocal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/NetPo4ki/go-steplocal/internal/gid"
)

// Local is per-execution storage with no initial value: Attach gives an
// execution its own empty slot, code running inside its steps sets and
// reads it, and the stored value is discarded when the execution
// completes or is abandoned. Unlike Cell, nothing flows back to the
// caller.
type Local[T any] struct {
	name string
	reg  registry[T]
}

// NewLocal creates an empty per-execution storage key.
func NewLocal[T any](optFns ...Option) *Local[T] {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	l := &Local[T]{name: opts.Name}
	if l.name == "" {
		l.name = uuid.NewString()
	}
	return l
}

// Name returns the key's label.
func (l *Local[T]) Name() string { return l.name }

// Get returns the stored value. ok is false when the slot is attached
// but not yet set, and when the calling goroutine has no attachment at
// all.
func (l *Local[T]) Get() (T, bool) {
	b := l.reg.peek(gid.Get())
	if b == nil || !b.ok {
		var zero T
		return zero, false
	}
	return b.value, true
}

// Set stores v in the attached slot and reports whether it replaced a
// previous value. It panics with an error wrapping ErrNotInScope when
// the calling goroutine is not inside an attached execution's step:
// with no attachment to discard it, the value would outlive the
// goroutine and alias a recycled goroutine id.
func (l *Local[T]) Set(v T) bool {
	b := l.reg.peek(gid.Get())
	if b == nil {
		panic(fmt.Errorf("local %q: %w", l.name, ErrNotInScope))
	}
	replaced := b.ok
	b.value = v
	b.ok = true
	return replaced
}

// Attach gives inner its own slot for l, installed around every step.
// The slot's content survives suspensions between steps inside the
// returned execution and is discarded with it.
func Attach[T, O any](l *Local[T], inner Execution[O]) Execution[O] {
	b := &box[T]{}
	return StepFunc[O](func(ctx context.Context) (O, bool) {
		g := gid.Get()
		prev := l.reg.swap(g, b)
		defer l.reg.swap(g, prev)
		return inner.Step(ctx)
	})
}

// LazyCell is Local with an initializer: the first in-scope access of
// each attachment runs init and stores its result.
type LazyCell[T any] struct {
	local Local[T]
	init  func() T
}

// NewLazy creates a per-execution storage key whose value is produced
// by init on first access.
func NewLazy[T any](init func() T, optFns ...Option) *LazyCell[T] {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	c := &LazyCell[T]{local: Local[T]{name: opts.Name}, init: init}
	if c.local.name == "" {
		c.local.name = uuid.NewString()
	}
	return c
}

// Name returns the key's label.
func (c *LazyCell[T]) Name() string { return c.local.name }

// inited returns the attached box, running the initializer if this
// attachment has not been touched yet.
func (c *LazyCell[T]) inited() *box[T] {
	b := c.local.reg.peek(gid.Get())
	if b == nil {
		panic(fmt.Errorf("lazy cell %q: %w", c.local.name, ErrNotInScope))
	}
	if !b.ok {
		b.value = c.init()
		b.ok = true
	}
	return b
}

// Get returns a copy of the stored value, initializing it first if
// needed.
func (c *LazyCell[T]) Get() T { return c.inited().value }

// Replace stores v and returns the previously stored value, running the
// initializer first if needed.
func (c *LazyCell[T]) Replace(v T) T {
	b := c.inited()
	prev := b.value
	b.value = v
	return prev
}

// Set stores v without running the initializer.
func (c *LazyCell[T]) Set(v T) {
	b := c.local.reg.peek(gid.Get())
	if b == nil {
		panic(fmt.Errorf("lazy cell %q: %w", c.local.name, ErrNotInScope))
	}
	b.value = v
	b.ok = true
}

// AttachLazy gives inner its own lazily initialized slot for c.
func AttachLazy[T, O any](c *LazyCell[T], inner Execution[O]) Execution[O] {
	return Attach(&c.local, inner)
}

// WithLazy calls f with the stored value and returns f's result,
// initializing the value first if needed.
func WithLazy[T, R any](c *LazyCell[T], f func(*T) R) R {
	b := c.inited()
	return f(&b.value)
}
