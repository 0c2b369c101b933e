package asyncx

import "context"

// Result pairs a future's value with its error
type Result[T any] struct {
	Value T
	Err   error
}

// All waits for every future and returns results in input order.
// Individual failures are reported per item; the returned error is only
// set when ctx ends first.
func All[T any](ctx context.Context, futures []*Future[T]) ([]Result[T], error) {
	results := make([]Result[T], len(futures))
	for i, f := range futures {
		select {
		case <-f.Done():
			results[i] = Result[T]{Value: f.val, Err: f.err}
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}
	return results, nil
}

// Map runs fn for every item concurrently and collects values in input
// order, failing with the first error by position.
func Map[T any, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	futures := make([]*Future[R], len(items))
	for i, item := range items {
		futures[i] = Go(ctx, func(ctx context.Context) (R, error) {
			return fn(ctx, item)
		})
	}

	results, err := All(ctx, futures)
	if err != nil {
		return nil, err
	}
	values := make([]R, len(results))
	for i, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
		values[i] = r.Value
	}
	return values, nil
}
