// Package errgroup provides an errgroup-style adapter that drives
// several executions to completion concurrently. It enables incremental
// adoption in programs already structured around
// golang.org/x/sync/errgroup.
package errgroup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/NetPo4ki/go-steplocal/drive"
	"github.com/NetPo4ki/go-steplocal/steplocal"
)

// Group drives executions on dedicated goroutines with fail-fast
// semantics inherited from x/sync/errgroup: the context returned by
// WithContext is canceled when any drive fails.
type Group struct {
	g   *errgroup.Group
	ctx context.Context
}

// WithContext creates a Group bound to ctx.
func WithContext(ctx context.Context) (*Group, context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	return &Group{g: g, ctx: ctx}, ctx
}

// Go drives e to completion on its own goroutine. The output is stored
// in *out once e completes; a nil out discards it.
func Go[O any](g *Group, e steplocal.Execution[O], out *O) {
	g.g.Go(func() error {
		v, err := drive.Wait(g.ctx, e)
		if err != nil {
			return err
		}
		if out != nil {
			*out = v
		}
		return nil
	})
}

// Wait blocks until every execution has completed. It returns the first
// drive error (fail-fast semantics) or nil on success.
func (g *Group) Wait() error {
	return g.g.Wait()
}
