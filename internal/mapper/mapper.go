package mapper

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

type Func[T any, R any] func(ctx context.Context, item T, index int) (R, error)

// Pending is an item whose value is only known once awaited.
type Pending[T any] func(ctx context.Context) (T, error)

type Options struct {
	Concurrency int
}

type Option func(*Options)

// WithConcurrency bounds the number of in-flight calls. Zero or negative means unbounded.
func WithConcurrency(concurrency int) Option {
	return func(o *Options) {
		o.Concurrency = concurrency
	}
}

// Map applies fn to every item and returns the results in input order.
// The first failure cancels the context handed to fn and stops further items
// from being claimed. It is returned once every started call has returned,
// not at the moment it happens, so fn should give up when its context is done.
// Unbounded mode starts every call up front and waits for all of them.
func Map[T any, R any](ctx context.Context, items []T, fn Func[T, R], opts ...Option) ([]R, error) {
	return MapPending(ctx, resolved(items), fn, opts...)
}

// MapPending is Map for items that still have to be awaited. Each item is
// awaited by the worker that claimed it, right before fn runs.
func MapPending[T any, R any](ctx context.Context, items []Pending[T], fn Func[T, R], opts ...Option) ([]R, error) {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	if options.Concurrency <= 0 {
		for i := range items {
			g.Go(func() error {
				return run(gctx, items, fn, results, i)
			})
		}
	} else {
		workers := min(options.Concurrency, len(items))
		var cursor atomic.Int64
		for range workers {
			g.Go(func() error {
				for {
					if gctx.Err() != nil {
						return nil
					}

					i := int(cursor.Add(1) - 1)
					if i >= len(items) {
						return nil
					}

					err := run(gctx, items, fn, results, i)
					if err != nil {
						return err
					}
				}
			})
		}
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return results, nil
}

func run[T any, R any](ctx context.Context, items []Pending[T], fn Func[T, R], results []R, i int) error {
	item, err := items[i](ctx)
	if err != nil {
		return err
	}

	result, err := fn(ctx, item, i)
	if err != nil {
		return err
	}

	results[i] = result
	return nil
}

func resolved[T any](items []T) []Pending[T] {
	pending := make([]Pending[T], len(items))
	for i, item := range items {
		pending[i] = func(context.Context) (T, error) {
			return item, nil
		}
	}
	return pending
}
