package usecases_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/core/graph"
	"github.com/oiangu/trenbide/internal/core/usecases"
)

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func buildTestSnapshot() *domain.Snapshot {
	trains := map[string]domain.Train{
		"T1": {ID: "T1", Fast: true, Stops: []domain.Stop{
			{Station: "X", Minute: 480}, {Station: "Y", Minute: 510}, {Station: "Z", Minute: 540},
		}},
	}
	return graph.Build(trains, nil, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 60})
}

func newTestService(cache *fakeCache) *usecases.ItineraryService {
	ptr := &atomic.Pointer[domain.Snapshot]{}
	ptr.Store(buildTestSnapshot())
	if cache == nil {
		return usecases.NewItineraryService(ptr, nil, 30, 0, 0)
	}
	return usecases.NewItineraryService(ptr, cache, 30, 0, 0)
}

func TestFindPath_ValidRequest(t *testing.T) {
	svc := newTestService(nil)
	resp, err := svc.FindPath(context.Background(), usecases.RawPathRequest{
		StartStation: "X", EndStation: "Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(resp.Paths))
	}
	if resp.Summary.TotalPaths != 1 || resp.Metadata.MaxTransfers != usecases.DefaultMaxTransfers {
		t.Errorf("unexpected summary/metadata: %+v %+v", resp.Summary, resp.Metadata)
	}
}

func TestFindPath_SameStationRejected(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.FindPath(context.Background(), usecases.RawPathRequest{
		StartStation: "X", EndStation: "X",
	})
	assertAppErrorKind(t, err, domain.ErrBadRequest)
}

func TestFindPath_UnknownStationRejected(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.FindPath(context.Background(), usecases.RawPathRequest{
		StartStation: "X", EndStation: "Nowhere",
	})
	assertAppErrorKind(t, err, domain.ErrUnknownStation)
}

func TestFindPath_MaxTransfersOutOfRangeRejected(t *testing.T) {
	svc := newTestService(nil)
	over := 3
	_, err := svc.FindPath(context.Background(), usecases.RawPathRequest{
		StartStation: "X", EndStation: "Z", MaxTransfers: &over,
	})
	assertAppErrorKind(t, err, domain.ErrBadRequest)
}

func TestFindPath_UsesCacheOnSecondCall(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache)
	ctx := context.Background()

	first, err := svc.FindPath(ctx, usecases.RawPathRequest{StartStation: "X", EndStation: "Z"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.FindPath(ctx, usecases.RawPathRequest{StartStation: "X", EndStation: "Z"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Summary.TotalPaths != second.Summary.TotalPaths {
		t.Errorf("cached response diverged: %+v vs %+v", first.Summary, second.Summary)
	}
}

func TestFindPath_ReloadInvalidatesCachedResponse(t *testing.T) {
	cache := newFakeCache()
	ptr := &atomic.Pointer[domain.Snapshot]{}
	ptr.Store(buildTestSnapshot())
	svc := usecases.NewItineraryService(ptr, cache, 30, 0, 0)
	ctx := context.Background()

	if _, err := svc.FindPath(ctx, usecases.RawPathRequest{StartStation: "X", EndStation: "Z"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded := buildTestSnapshot()
	reloaded.Version = "v2"
	ptr.Store(reloaded)

	resp, err := svc.FindPath(ctx, usecases.RawPathRequest{StartStation: "X", EndStation: "Z"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Paths) != 1 {
		t.Fatalf("expected fresh enumeration after reload, got %d paths", len(resp.Paths))
	}
	// cache must hold two distinct entries: one per snapshot version.
	if len(cache.store) != 2 {
		t.Errorf("expected cache to key by snapshot version, got %d entries: %v", len(cache.store), cache.store)
	}
}

func TestStations_CachedBySnapshotVersion(t *testing.T) {
	cache := newFakeCache()
	ptr := &atomic.Pointer[domain.Snapshot]{}
	ptr.Store(buildTestSnapshot())
	svc := usecases.NewItineraryService(ptr, cache, 30, 0, 0)
	ctx := context.Background()

	first, err := svc.Stations(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Count != 3 {
		t.Fatalf("expected 3 stations, got %d", first.Count)
	}
	if _, ok := cache.store["stations:"+ptr.Load().Version]; !ok {
		t.Fatalf("expected stations result to be cached under versioned key")
	}

	reloaded := buildTestSnapshot()
	reloaded.Version = "v2"
	ptr.Store(reloaded)

	second, err := svc.Stations(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Count != 3 {
		t.Fatalf("expected 3 stations after reload, got %d", second.Count)
	}
	if len(cache.store) != 2 {
		t.Errorf("expected a distinct cache entry per snapshot version, got %d: %v", len(cache.store), cache.store)
	}
}

func assertAppErrorKind(t *testing.T, err error, kind domain.ErrKind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr, ok := err.(*domain.AppError)
	if !ok {
		t.Fatalf("expected *domain.AppError, got %T", err)
	}
	if appErr.Kind != kind {
		t.Errorf("expected kind %s, got %s", kind, appErr.Kind)
	}
}
