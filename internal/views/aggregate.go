package views

import (
	"context"

	"golang.org/x/sync/errgroup"

	"investctl/internal/errors"
)

// read is one named fetch within a view load. The name survives into
// the error so a failed page can say which call broke.
type read struct {
	name string
	fn   func(ctx context.Context) error
}

// fetchAll runs the reads concurrently and joins them. The first
// failure cancels the siblings and fails the whole load; partial
// results are discarded by the caller. All-or-nothing.
func fetchAll(ctx context.Context, view string, reads ...read) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range reads {
		r := r
		g.Go(func() error {
			if err := r.fn(ctx); err != nil {
				return errors.NewViewError(view, r.name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
