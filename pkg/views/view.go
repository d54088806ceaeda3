package views

import (
	"context"
	"sync"
)

// Loader fetches the data behind a view.
type Loader[T any] func(ctx context.Context) (T, error)

// View fetches its resource once, on first use, and holds the outcome (data or error)
// until Reload is called. There is no automatic retry.
type View[T any] struct {
	load Loader[T]

	mu     sync.Mutex
	loaded bool
	data   T
	err    error
}

// NewView creates a view backed by load.
func NewView[T any](load Loader[T]) *View[T] {
	return &View[T]{load: load}
}

// Get returns the held outcome, fetching it first if the view has never been shown.
func (v *View[T]) Get(ctx context.Context) (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		v.fetch(ctx)
	}
	return v.data, v.err
}

// Reload discards the held outcome and fetches again.
func (v *View[T]) Reload(ctx context.Context) (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.fetch(ctx)
	return v.data, v.err
}

// fetch must be called with mu held.
func (v *View[T]) fetch(ctx context.Context) {
	var zero T
	data, err := v.load(ctx)
	if err != nil {
		data = zero
	}

	v.data = data
	v.err = err
	v.loaded = true
}
