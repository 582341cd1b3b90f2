// Package cache implements the client-side fetch cache: one Resource
// per remote collection. A resource remembers the last good value,
// deduplicates concurrent fetches, and serves stale data while a
// refresh is failing.
package cache

import (
	"context"
	"sync"
)

// Resource caches the result of a single fetch function. The zero value
// is not usable; construct with NewResource.
type Resource[T any] struct {
	fetch func(context.Context) (T, error)

	mu       sync.Mutex
	data     T
	hasData  bool
	stale    bool
	err      error
	inflight chan struct{}
}

func NewResource[T any](fetch func(context.Context) (T, error)) *Resource[T] {
	return &Resource[T]{fetch: fetch}
}

// Get returns the cached value, fetching if the cache is empty or has
// been invalidated. Concurrent callers during a fetch share the single
// in-flight request instead of issuing their own. When the fetch fails
// the previous value is returned alongside the error, so callers can
// keep showing stale data.
func (r *Resource[T]) Get(ctx context.Context) (T, error) {
	r.mu.Lock()
	if r.hasData && !r.stale {
		v := r.data
		r.mu.Unlock()
		return v, nil
	}
	if r.inflight != nil {
		done := r.inflight
		r.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
		return r.current()
	}

	done := make(chan struct{})
	r.inflight = done
	r.mu.Unlock()

	v, err := r.fetch(ctx)

	r.mu.Lock()
	if err == nil {
		r.data = v
		r.hasData = true
		r.stale = false
	}
	r.err = err
	r.inflight = nil
	close(done)
	r.mu.Unlock()

	return r.current()
}

func (r *Resource[T]) current() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data, r.err
}

// Set replaces the cached value directly, as after a mutation whose
// response already carries fresh data, or an optimistic local update.
func (r *Resource[T]) Set(v T) {
	r.mu.Lock()
	r.data = v
	r.hasData = true
	r.stale = false
	r.err = nil
	r.mu.Unlock()
}

// Invalidate marks the cached value stale. The data stays available
// through Peek until the next Get replaces it.
func (r *Resource[T]) Invalidate() {
	r.mu.Lock()
	r.stale = true
	r.mu.Unlock()
}

// Peek returns the last good value without triggering a fetch.
func (r *Resource[T]) Peek() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data, r.hasData
}

// Err returns the error from the most recent fetch, nil after success.
func (r *Resource[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
