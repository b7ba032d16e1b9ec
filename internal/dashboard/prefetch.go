package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Prefetch runs loads concurrently and returns the first error once all of
// them finish. Every load gets ctx itself, so one failure never cancels its
// siblings.
func Prefetch(ctx context.Context, loads ...func(context.Context) error) error {
	var g errgroup.Group
	for _, load := range loads {
		if load == nil {
			continue
		}
		g.Go(func() error { return load(ctx) })
	}
	return g.Wait()
}
