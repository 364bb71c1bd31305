package steplocal

import "context"

// Execution is one cooperatively driven unit of work. The host
// scheduler calls Step repeatedly, one call at a time, possibly from
// different goroutines across calls, until done is true. The returned
// output is meaningful only on the completing step.
//
// This package never drives executions itself; it only wraps them. See
// the drive package for reference drivers.
type Execution[O any] interface {
	Step(ctx context.Context) (out O, done bool)
}

// StepFunc adapts a function to the Execution interface.
type StepFunc[O any] func(ctx context.Context) (O, bool)

func (f StepFunc[O]) Step(ctx context.Context) (O, bool) { return f(ctx) }
