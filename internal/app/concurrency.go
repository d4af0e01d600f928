package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PartialResult holds a result or an error for partial success patterns.
type PartialResult[T any] struct {
	Value T
	Err   error
}

// ParallelPartialLimit runs fns with at most limit in flight and collects
// every result. A failing function does not cancel the others, and results
// keep the order of fns.
//
// Example:
//
//	results := ParallelPartialLimit(ctx, 4, parseFuncs...)
//	for _, r := range results {
//	    if r.Err != nil {
//	        // skip and log
//	    }
//	}
func ParallelPartialLimit[T any](
	ctx context.Context,
	limit int,
	fns ...func(context.Context) (T, error),
) []PartialResult[T] {
	results := make([]PartialResult[T], len(fns))

	if limit <= 0 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, fn := range fns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = PartialResult[T]{Err: err}
				return nil
			}

			value, err := fn(ctx)
			results[i] = PartialResult[T]{Value: value, Err: err}

			return nil
		})
	}

	_ = g.Wait()

	return results
}
