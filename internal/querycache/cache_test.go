package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/delivery-admin/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func countingFetch(calls *int32, value any) FetchFunc {
	return func(context.Context) (any, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

func TestQueryServesFromMemory(t *testing.T) {
	reg := prometheus.NewRegistry()
	cache := New(WithMetrics(metrics.NewCacheMetrics(reg)))
	var calls int32

	for i := 0; i < 3; i++ {
		v, err := cache.Query(context.Background(), AreasKey(), countingFetch(&calls, []string{"Downtown"}))
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if got := v.([]string); len(got) != 1 {
			t.Fatalf("unexpected value %v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}

	samples, err := metrics.Summarize(reg)
	require.NoError(t, err)
	byName := map[string]float64{}
	for _, s := range samples {
		byName[s.Name] = s.Value
	}
	require.Equal(t, float64(2), byName["admin_cache_hits_total"])
	require.Equal(t, float64(1), byName["admin_cache_misses_total"])
}

func TestQueryDoesNotCacheErrors(t *testing.T) {
	cache := New()
	boom := errors.New("boom")
	var calls int32
	fetch := func(context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, boom
		}
		return "ok", nil
	}

	if _, err := cache.Query(context.Background(), SettingsKey(), fetch); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	v, err := cache.Query(context.Background(), SettingsKey(), fetch)
	if err != nil || v != "ok" {
		t.Fatalf("expected retry to succeed, got %v %v", v, err)
	}
}

func TestQueryCoalescesConcurrentFetches(t *testing.T) {
	cache := New()
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int32
	fetch := func(context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]any, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cache.Query(context.Background(), PlacesKey(), fetch)
		}(i)
	}
	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Fatalf("expected coalesced fetch, got %d calls", calls)
	}
	for _, r := range results {
		if r != 42 {
			t.Fatalf("unexpected result %v", r)
		}
	}
}

func TestCancelledCallerLeavesSharedFetchRunning(t *testing.T) {
	cache := New()
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int32
	fetch := func(ctx context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return "ok", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := cache.Query(leaderCtx, StoresKey(), fetch)
		leaderErr <- err
	}()
	<-started

	type result struct {
		value any
		err   error
	}
	follower := make(chan result, 1)
	go func() {
		v, err := cache.Query(context.Background(), StoresKey(), fetch)
		follower <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-follower
	require.NoError(t, got.err)
	require.Equal(t, "ok", got.value)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))

	v, ok := cache.Peek(StoresKey())
	require.True(t, ok, "the shared fetch is still stored")
	require.Equal(t, "ok", v)
}

func TestStaleFetchIsNotStored(t *testing.T) {
	cache := New(WithDispatcher(Inline))
	release := make(chan struct{})
	started := make(chan struct{})

	done := make(chan any)
	go func() {
		v, _ := cache.Query(context.Background(), StoresKey(), func(context.Context) (any, error) {
			close(started)
			<-release
			return "before-invalidate", nil
		})
		done <- v
	}()

	<-started
	cache.Invalidate(context.Background(), ResourceStores)
	close(release)

	if v := <-done; v != "before-invalidate" {
		t.Fatalf("caller should still receive its response, got %v", v)
	}
	if _, ok := cache.Peek(StoresKey()); ok {
		t.Fatalf("stale response must not repopulate the cache")
	}

	var calls int32
	v, err := cache.Query(context.Background(), StoresKey(), countingFetch(&calls, "fresh"))
	if err != nil || v != "fresh" || calls != 1 {
		t.Fatalf("expected a fresh fetch, got %v %v calls=%d", v, err, calls)
	}
}

func TestInvalidateDropsOnlyNamedResources(t *testing.T) {
	cache := New()
	ctx := context.Background()
	var calls int32
	for _, key := range []Key{AreasKey(), AreaKey(1), AreasByPlaceKey(3), PlacesKey()} {
		if _, err := cache.Query(ctx, key, countingFetch(&calls, key.String())); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	cache.Invalidate(ctx, ResourceAreas)

	for _, key := range []Key{AreasKey(), AreaKey(1), AreasByPlaceKey(3)} {
		if _, ok := cache.Peek(key); ok {
			t.Fatalf("%s should be dropped", key)
		}
	}
	if _, ok := cache.Peek(PlacesKey()); !ok {
		t.Fatalf("places should survive an areas invalidation")
	}
}

func TestGetRejectsMismatchedType(t *testing.T) {
	cache := New()
	ctx := context.Background()
	if _, err := cache.Query(ctx, ProfileKey(), countingFetch(new(int32), "a string")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := Get(ctx, cache, ProfileKey(), func(context.Context) (int, error) { return 1, nil })
	if err == nil {
		t.Fatalf("expected type mismatch error")
	}
}
