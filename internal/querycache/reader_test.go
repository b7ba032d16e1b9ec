package querycache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderRefetchesOncePerInvalidation(t *testing.T) {
	cache := New(WithDispatcher(Inline))
	ctx := context.Background()
	var calls int32
	fetch := func(context.Context) ([]string, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return []string{"Downtown"}, nil
		}
		return []string{"Downtown", "Harbor"}, nil
	}

	reader := Mount(ctx, cache, AreasKey(), fetch)
	defer reader.Close()

	data, err := reader.Data()
	require.NoError(t, err)
	require.Len(t, data, 1)
	require.Equal(t, int32(1), calls)

	cache.Invalidate(ctx, ResourceAreas, ResourceAreas)

	require.Equal(t, int32(2), calls, "one refetch per invalidation call")
	data, _ = reader.Data()
	require.Len(t, data, 2)
	require.Equal(t, uint64(2), reader.Version())
}

func TestReaderIgnoresOtherResources(t *testing.T) {
	cache := New(WithDispatcher(Inline))
	ctx := context.Background()
	var calls int32
	reader := Mount(ctx, cache, PlacesKey(), func(context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})
	defer reader.Close()

	cache.Invalidate(ctx, ResourceAreas, ResourceStores)
	if calls != 1 {
		t.Fatalf("unrelated invalidation triggered %d fetches", calls)
	}
}

func TestReaderKeepsDataOnError(t *testing.T) {
	cache := New(WithDispatcher(Inline))
	ctx := context.Background()
	fail := errors.New("network down")
	var calls int32
	reader := Mount(ctx, cache, SettingsKey(), func(context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "v1", nil
		}
		return "", fail
	})
	defer reader.Close()

	cache.Invalidate(ctx, ResourceSettings)

	snap := reader.Snapshot()
	if !errors.Is(snap.Err, fail) {
		t.Fatalf("expected fetch error, got %v", snap.Err)
	}
	if snap.Data != "v1" || !snap.Loaded || snap.Loading {
		t.Fatalf("last confirmed data should remain, got %+v", snap)
	}
}

func TestClosedReaderDropsLateResponse(t *testing.T) {
	var queued []func()
	cache := New(WithDispatcher(func(f func()) { queued = append(queued, f) }))
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int32

	reader := Mount(ctx, cache, StoresKey(), func(context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "first", nil
		}
		close(started)
		<-release
		return "late", nil
	})

	cache.Invalidate(ctx, ResourceStores)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = reader.Refetch(ctx)
	}()
	<-started
	reader.Close()
	close(release)
	<-done

	data, _ := reader.Data()
	if data != "first" {
		t.Fatalf("closed reader must keep its last state, got %q", data)
	}

	for _, f := range queued {
		f()
	}
	cache.Wait()
	if calls != 2 {
		t.Fatalf("closed reader must not refetch, got %d calls", calls)
	}
}
