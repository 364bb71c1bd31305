package steplocal

import (
	"context"
	"time"

	"github.com/NetPo4ki/go-steplocal/internal/gid"
)

// Pair is the output of a scoped execution: the owned value as it stood
// on the completing step, plus the inner execution's own output.
type Pair[T, O any] struct {
	Value  T
	Output O
}

// Scoped owns a value of type T and an inner execution. On every step
// it installs the value for the calling goroutine, advances the inner
// execution once, and uninstalls again before returning, so the value
// is reachable through the cell exactly while the inner code runs. On
// the completing step it yields the value back alongside the inner
// output.
//
// Abandoning a Scoped before completion is always safe: nothing stays
// installed between steps, so there is no cleanup beyond garbage
// collection of the value itself.
type Scoped[T, O any] struct {
	cell    *Cell[T]
	box     box[T]
	inner   Execution[O]
	steps   int
	started time.Time
	done    bool
}

// Scope wraps inner so that value is reachable through c on whichever
// goroutine performs each step. The wrapper is itself an Execution and
// is driven by the host scheduler like any other.
func Scope[T, O any](c *Cell[T], value T, inner Execution[O]) *Scoped[T, O] {
	return &Scoped[T, O]{cell: c, box: box[T]{value: value, ok: true}, inner: inner}
}

// Step advances the inner execution one step with the value installed.
// It panics if called again after the completing step.
func (s *Scoped[T, O]) Step(ctx context.Context) (Pair[T, O], bool) {
	if s.done {
		panic("steplocal: Step called on a completed scope")
	}
	if s.steps == 0 {
		s.started = time.Now()
		if s.cell.obs != nil {
			s.cell.obs.ScopeStarted(s.cell.name)
		}
	}
	s.steps++

	g := gid.Get()
	prev := s.cell.reg.swap(g, &s.box)
	begin := time.Now()
	finished := false
	// The restore runs on every exit path, so a panicking inner step
	// cannot leave a stale handle installed.
	defer func() {
		s.cell.reg.swap(g, prev)
		if s.cell.obs != nil {
			s.cell.obs.StepFinished(s.cell.name, time.Since(begin), !finished)
			if s.done {
				s.cell.obs.ScopeCompleted(s.cell.name, s.steps, time.Since(s.started))
			}
		}
	}()

	out, done := s.inner.Step(ctx)
	finished = true
	if !done {
		return Pair[T, O]{}, false
	}
	s.done = true
	return Pair[T, O]{Value: s.box.value, Output: out}, true
}

// Discard adapts s to an Execution that drops the owned value from the
// output, for callers that only care about the inner result.
func (s *Scoped[T, O]) Discard() Execution[O] {
	return StepFunc[O](func(ctx context.Context) (O, bool) {
		p, done := s.Step(ctx)
		return p.Output, done
	})
}
