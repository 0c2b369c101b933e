package asyncx

import (
	"context"
	"fmt"
)

// Future holds the eventual result of a function running on its own goroutine
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go starts fn and returns its Future. A panic inside fn resolves the
// future with an error instead of crashing the process.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("asyncx: panic: %v", r)
			}
		}()
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Failed returns an already resolved future carrying err
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Done is closed once the result is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx ends
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
