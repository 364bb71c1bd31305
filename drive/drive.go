// Package drive contains reference drivers for steplocal executions. A
// real host scheduler owns suspension and resumption policy; these
// drivers cover tests, examples, and programs that just need an
// execution run to completion.
package drive

import (
	"context"

	"github.com/NetPo4ki/go-steplocal/steplocal"
)

// Wait drives e to completion on the calling goroutine, checking ctx
// between steps.
func Wait[O any](ctx context.Context, e steplocal.Execution[O]) (O, error) {
	for {
		if err := ctx.Err(); err != nil {
			var zero O
			return zero, err
		}
		if out, done := e.Step(ctx); done {
			return out, nil
		}
	}
}

// Migrate drives e to completion running every step on a fresh
// goroutine, so no two steps share goroutine-local state. It exists to
// exercise the no-thread-affinity contract of scoped executions.
func Migrate[O any](ctx context.Context, e steplocal.Execution[O]) (O, error) {
	type result struct {
		out  O
		done bool
	}
	for {
		if err := ctx.Err(); err != nil {
			var zero O
			return zero, err
		}
		ch := make(chan result, 1)
		go func() {
			out, done := e.Step(ctx)
			ch <- result{out: out, done: done}
		}()
		if r := <-ch; r.done {
			return r.out, nil
		}
	}
}
