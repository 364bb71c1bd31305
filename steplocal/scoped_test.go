package steplocal

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestScopeNestingSameStep(t *testing.T) {
	t.Parallel()
	cell := New[string]()
	var seen []string
	inner := StepFunc[struct{}](func(ctx context.Context) (struct{}, bool) {
		seen = append(seen, cell.Get())
		nested := Scope(cell, "inner", StepFunc[int](func(context.Context) (int, bool) {
			seen = append(seen, cell.Get())
			return 42, true
		}))
		p, done := nested.Step(ctx)
		if !done || p.Value != "inner" || p.Output != 42 {
			t.Errorf("nested scope returned (%q, %d, %v)", p.Value, p.Output, done)
		}
		seen = append(seen, cell.Get())
		return struct{}{}, true
	})
	if _, done := Scope(cell, "outer", inner).Step(context.Background()); !done {
		t.Fatal("expected completion")
	}
	want := []string{"outer", "inner", "outer"}
	if len(seen) != len(want) {
		t.Fatalf("saw %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("saw %v, want %v", seen, want)
		}
	}
}

func TestScopeNestingAcrossSteps(t *testing.T) {
	t.Parallel()
	cell := New[string]()
	ctx := context.Background()

	// The inner scope stays pending across two of the outer scope's
	// steps; the outer value must be visible again after each of the
	// inner scope's steps.
	var outerSeen []string
	innerSteps := 0
	nested := Scope(cell, "inner", StepFunc[struct{}](func(context.Context) (struct{}, bool) {
		innerSteps++
		return struct{}{}, innerSteps == 2
	}))
	outer := Scope(cell, "outer", StepFunc[struct{}](func(ctx context.Context) (struct{}, bool) {
		_, done := nested.Step(ctx)
		outerSeen = append(outerSeen, cell.Get())
		return struct{}{}, done
	}))

	for {
		if _, done := outer.Step(ctx); done {
			break
		}
	}
	if len(outerSeen) != 2 {
		t.Fatalf("outer ran %d steps, want 2", len(outerSeen))
	}
	for _, v := range outerSeen {
		if v != "outer" {
			t.Fatalf("outer value not restored between nested steps: %v", outerSeen)
		}
	}
}

func TestPanicRestoresSlot(t *testing.T) {
	t.Parallel()
	cell := New[int]()
	s := Scope(cell, 1, StepFunc[struct{}](func(context.Context) (struct{}, bool) {
		panic("boom")
	}))
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("inner panic did not propagate")
			}
		}()
		s.Step(context.Background())
	}()
	if err := cell.TryWith(func(*int) {}); !errors.Is(err, ErrNotInScope) {
		t.Fatalf("slot still installed after panicking step: %v", err)
	}
}

func TestStepAfterCompletionPanics(t *testing.T) {
	t.Parallel()
	cell := New[int]()
	s := Scope(cell, 0, StepFunc[struct{}](func(context.Context) (struct{}, bool) {
		return struct{}{}, true
	}))
	if _, done := s.Step(context.Background()); !done {
		t.Fatal("expected completion")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on Step after completion")
		}
	}()
	s.Step(context.Background())
}

func TestDiscardDropsValue(t *testing.T) {
	t.Parallel()
	cell := New[uint64]()
	e := Scope(cell, 0, counterSteps(cell, 2)).Discard()
	ctx := context.Background()
	if _, done := e.Step(ctx); done {
		t.Fatal("completed early")
	}
	out, done := e.Step(ctx)
	if !done || out != "done" {
		t.Fatalf("got (%q, %v), want (%q, true)", out, done, "done")
	}
}

func TestStepsOnDistinctGoroutines(t *testing.T) {
	t.Parallel()
	cell := New[uint64]()
	s := Scope(cell, 0, counterSteps(cell, 3))
	ctx := context.Background()

	// Drive each step from its own goroutine: the install is
	// re-established per step, so every step still sees the value.
	var p Pair[uint64, string]
	var done bool
	for !done {
		ch := make(chan struct{})
		go func() {
			defer close(ch)
			p, done = s.Step(ctx)
		}()
		<-ch
	}
	if p.Value != 3 || p.Output != "done" {
		t.Fatalf("got (%d, %q), want (3, %q)", p.Value, p.Output, "done")
	}
}

type countObserver struct {
	started   atomic.Int64
	steps     atomic.Int64
	panicked  atomic.Int64
	completed atomic.Int64
	lastSteps atomic.Int64
}

func (o *countObserver) ScopeStarted(string) { o.started.Add(1) }
func (o *countObserver) StepFinished(_ string, _ time.Duration, panicked bool) {
	o.steps.Add(1)
	if panicked {
		o.panicked.Add(1)
	}
}
func (o *countObserver) ScopeCompleted(_ string, steps int, _ time.Duration) {
	o.completed.Add(1)
	o.lastSteps.Store(int64(steps))
}

func TestObserverHooks(t *testing.T) {
	t.Parallel()
	obs := &countObserver{}
	cell := New[uint64](WithName("observed"), WithObserver(obs))
	s := Scope(cell, 0, counterSteps(cell, 3))
	ctx := context.Background()
	for {
		if _, done := s.Step(ctx); done {
			break
		}
	}
	if obs.started.Load() != 1 || obs.completed.Load() != 1 {
		t.Fatalf("unexpected scope counts: started=%d completed=%d",
			obs.started.Load(), obs.completed.Load())
	}
	if obs.steps.Load() != 3 || obs.lastSteps.Load() != 3 {
		t.Fatalf("unexpected step counts: steps=%d lastSteps=%d",
			obs.steps.Load(), obs.lastSteps.Load())
	}
	if obs.panicked.Load() != 0 {
		t.Fatalf("unexpected panics recorded: %d", obs.panicked.Load())
	}
}

func TestObserverRecordsPanickedStep(t *testing.T) {
	t.Parallel()
	obs := &countObserver{}
	cell := New[int](WithObserver(obs))
	s := Scope(cell, 0, StepFunc[struct{}](func(context.Context) (struct{}, bool) {
		panic("boom")
	}))
	func() {
		defer func() { _ = recover() }()
		s.Step(context.Background())
	}()
	if obs.panicked.Load() != 1 {
		t.Fatalf("panicked steps recorded: %d, want 1", obs.panicked.Load())
	}
	if obs.completed.Load() != 0 {
		t.Fatal("panicking scope must not be recorded as completed")
	}
}
