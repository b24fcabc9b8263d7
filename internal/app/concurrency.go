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
// every result. A failing function never cancels the others.
// Results are returned in the order of fns.
//
// Example:
//
//	results := ParallelPartialLimit(ctx, 4, submitFuncs...)
//	for _, r := range results {
//	    if r.Err != nil {
//	        failed++
//	    }
//	}
func ParallelPartialLimit[T any](
	ctx context.Context,
	limit int,
	fns ...func(context.Context) (T, error),
) []PartialResult[T] {
	results := make([]PartialResult[T], len(fns))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, fn := range fns {
		g.Go(func() error {
			value, err := fn(ctx)
			results[i] = PartialResult[T]{Value: value, Err: err}

			return nil
		})
	}

	_ = g.Wait()

	return results
}

// CountErrors returns how many results carry an error.
func CountErrors[T any](results []PartialResult[T]) int {
	n := 0

	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}

	return n
}
