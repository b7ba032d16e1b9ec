package querycache

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/delivery-admin/pkg/logger"
	"github.com/angelmondragon/delivery-admin/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads a value from the server.
type FetchFunc func(ctx context.Context) (any, error)

// Dispatcher runs reader refetches triggered by invalidation.
type Dispatcher func(func())

type subscription struct {
	resource Resource
	notify   func()
}

// Cache holds the last confirmed server response per key for the life of the
// process. It never holds optimistic writes.
type Cache struct {
	mu          sync.Mutex
	entries     map[Key]any
	generations map[Resource]uint64
	subscribers map[Resource]map[*subscription]struct{}

	group    singleflight.Group
	dispatch Dispatcher
	pending  sync.WaitGroup

	logg    *logger.Logger
	metrics *metrics.CacheMetrics
}

// Option configures optional cache behavior.
type Option func(*Cache)

func WithLogger(logg *logger.Logger) Option {
	return func(c *Cache) {
		if logg != nil {
			c.logg = logg
		}
	}
}

func WithMetrics(m *metrics.CacheMetrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// WithDispatcher overrides how invalidation refetches are scheduled. Tests
// pass Inline to run them before Invalidate returns.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Cache) {
		if d != nil {
			c.dispatch = d
		}
	}
}

// Inline runs f on the calling goroutine.
func Inline(f func()) { f() }

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:     make(map[Key]any),
		generations: make(map[Resource]uint64),
		subscribers: make(map[Resource]map[*subscription]struct{}),
		dispatch:    func(f func()) { go f() },
		logg:        logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Query serves key from memory when present. Otherwise it fetches, coalescing
// concurrent callers for the same key. A fetch that began before an
// invalidation of the key's resource still returns its value to its callers
// but is not stored.
func (c *Cache) Query(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	if fetch == nil {
		return nil, fmt.Errorf("query %s: nil fetch", key)
	}

	c.mu.Lock()
	if value, ok := c.entries[key]; ok {
		c.mu.Unlock()
		c.metrics.IncHit(key.Resource.String())
		return value, nil
	}
	gen := c.generations[key.Resource]
	c.mu.Unlock()

	c.metrics.IncMiss(key.Resource.String())
	c.logg.Debug(c.logg.WithResource(ctx, key.Resource.String()), "cache miss "+key.String())

	// The flight outlives any single caller. A cancelled caller stops
	// waiting while the others still get the result.
	flightCtx := context.WithoutCancel(ctx)
	flight := fmt.Sprintf("%s#%d", key, gen)
	ch := c.group.DoChan(flight, func() (any, error) {
		value, err := fetch(flightCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generations[key.Resource] == gen {
			c.entries[key] = value
		}
		c.mu.Unlock()
		return value, nil
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Peek returns the cached value for key without fetching.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok
}

// Invalidate drops every key of the given resources and asks each mounted
// reader of those resources to refetch, once per call.
func (c *Cache) Invalidate(ctx context.Context, resources ...Resource) {
	notified := make(map[*subscription]struct{})
	var targets []*subscription

	c.mu.Lock()
	for _, res := range resources {
		c.generations[res]++
		for key := range c.entries {
			if key.Resource == res {
				delete(c.entries, key)
			}
		}
		for sub := range c.subscribers[res] {
			if _, seen := notified[sub]; seen {
				continue
			}
			notified[sub] = struct{}{}
			targets = append(targets, sub)
		}
	}
	c.mu.Unlock()

	for _, res := range resources {
		c.metrics.IncInvalidation(res.String())
		c.logg.Debug(c.logg.WithResource(ctx, res.String()), "cache invalidated")
	}
	for _, sub := range targets {
		notify := sub.notify
		c.pending.Add(1)
		c.dispatch(func() {
			defer c.pending.Done()
			notify()
		})
	}
}

// Wait blocks until every dispatched refetch has finished.
func (c *Cache) Wait() {
	c.pending.Wait()
}

func (c *Cache) subscribe(resource Resource, notify func()) *subscription {
	sub := &subscription{resource: resource, notify: notify}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscribers[resource] == nil {
		c.subscribers[resource] = make(map[*subscription]struct{})
	}
	c.subscribers[resource][sub] = struct{}{}
	return sub
}

func (c *Cache) unsubscribe(sub *subscription) {
	if sub == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscribers[sub.resource], sub)
}

// Get runs a typed one-shot query.
func Get[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := c.Query(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cached value for %s has type %T", key, value)
	}
	return typed, nil
}
