package querycache

import (
	"context"
	"sync"
)

// Snapshot is what a mounted view renders.
type Snapshot[T any] struct {
	Data    T
	Err     error
	Loaded  bool
	Loading bool
}

// Reader is a mounted view bound to one key. It refetches whenever the key's
// resource is invalidated and drops responses that arrive after Close or after
// a newer load started.
type Reader[T any] struct {
	cache *Cache
	key   Key
	fetch func(context.Context) (T, error)
	ctx   context.Context
	sub   *subscription

	mu      sync.Mutex
	snap    Snapshot[T]
	seq     uint64
	closed  bool
	version uint64
}

// Mount subscribes to key's resource and performs the first load before
// returning. A failed first load is reported through Data.
func Mount[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) *Reader[T] {
	r := &Reader[T]{
		cache: c,
		key:   key,
		fetch: fetch,
		ctx:   context.WithoutCancel(ctx),
	}
	r.sub = c.subscribe(key.Resource, func() { _ = r.Refetch(r.ctx) })
	_ = r.Refetch(ctx)
	return r
}

func (r *Reader[T]) Key() Key {
	return r.key
}

// Data returns the last confirmed server state and the error of the most
// recent load, if it failed.
func (r *Reader[T]) Data() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.Data, r.snap.Err
}

func (r *Reader[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Version counts applied loads. Views use it to detect a refresh.
func (r *Reader[T]) Version() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// Refetch loads the key through the cache and applies the result unless the
// reader was closed or superseded meanwhile.
func (r *Reader[T]) Refetch(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.seq++
	seq := r.seq
	r.snap.Loading = true
	r.mu.Unlock()

	data, err := Get(ctx, r.cache, r.key, r.fetch)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || seq != r.seq {
		return err
	}
	r.snap.Loading = false
	r.snap.Err = err
	if err == nil {
		r.snap.Data = data
		r.snap.Loaded = true
	}
	r.version++
	return err
}

// Close unmounts the reader. Later responses are discarded.
func (r *Reader[T]) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()
	r.cache.unsubscribe(r.sub)
}
