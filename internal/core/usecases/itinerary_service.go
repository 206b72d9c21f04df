// Package usecases hosts the query facade that binds validated requests to
// the enumerator and post-processor, producing the response envelope.
package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/core/enumerate"
	"github.com/oiangu/trenbide/internal/core/postprocess"
	"github.com/oiangu/trenbide/internal/core/ports"
	"github.com/oiangu/trenbide/internal/pkg/metrics"
)

var tracer = otel.Tracer("trenbide/itinerary")

// FindPathRequest is the validated, defaulted input to FindPath.
type FindPathRequest struct {
	StartStation                          string
	EndStation                            string
	MaxTransfers                          int
	WindowMinutes                         int
	AllowSameStationConsecutiveTransfers bool
}

// Summary mirrors the response envelope's summary block.
type Summary struct {
	TotalPaths     int `json:"total_paths"`
	FastestMinutes int `json:"fastest_minutes"`
	WindowMinutes  int `json:"window_minutes"`
	FilteredPaths  int `json:"filtered_paths"`
	MergedPaths    int `json:"merged_paths"`
}

// Metadata mirrors the response envelope's metadata block.
type Metadata struct {
	MaxTransfers int       `json:"max_transfers"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Response is the full POST /path response payload.
type Response struct {
	StartStation string              `json:"start_station"`
	EndStation   string              `json:"end_station"`
	Paths        []domain.MergedPath `json:"paths"`
	Summary      Summary             `json:"summary"`
	Metadata     Metadata            `json:"metadata"`
}

// DefaultMaxTransfers and MaxWindowMinutes are fixed by spec §4.g; the
// default window and the transfer cap are operator-configurable (see
// config.QueryConfig) and live on the service instance instead.
const (
	DefaultMaxTransfers = 2
	MaxWindowMinutes    = 480
)

// ItineraryService is the query facade of spec §4.g: validate, enumerate,
// post-process, assemble. It reads an atomically-swappable Snapshot and
// never mutates it.
type ItineraryService struct {
	snapshot             *atomic.Pointer[domain.Snapshot]
	cache                ports.CacheService
	cacheTTL             int
	maxTransfersCap      int
	defaultWindowMinutes int
	now                  func() time.Time
}

// NewItineraryService wires a facade over a live snapshot pointer. cache may
// be nil to disable read-through caching. maxTransfersCap and
// defaultWindowMinutes come from config.QueryConfig; a zero maxTransfersCap
// falls back to enumerate.HardCap and a zero defaultWindowMinutes falls back
// to 120, so zero-value config in tests still behaves sensibly.
func NewItineraryService(snapshot *atomic.Pointer[domain.Snapshot], cache ports.CacheService, cacheTTLSeconds int, maxTransfersCap int, defaultWindowMinutes int) *ItineraryService {
	if maxTransfersCap <= 0 {
		maxTransfersCap = enumerate.HardCap
	}
	if defaultWindowMinutes <= 0 {
		defaultWindowMinutes = 120
	}
	return &ItineraryService{
		snapshot:             snapshot,
		cache:                cache,
		cacheTTL:             cacheTTLSeconds,
		maxTransfersCap:      maxTransfersCap,
		defaultWindowMinutes: defaultWindowMinutes,
		now:                  time.Now,
	}
}

// Snapshot exposes the currently-published snapshot, e.g. for the /health
// handler.
func (s *ItineraryService) Snapshot() *domain.Snapshot {
	return s.snapshot.Load()
}

// StationsResult is the station directory, independent of the response
// timestamp so it can be cached and reused across calls.
type StationsResult struct {
	Stations []string `json:"stations"`
	Count    int      `json:"count"`
}

// Stations returns the current station directory, read-through cached by
// snapshot version so a reload invalidates it automatically.
func (s *ItineraryService) Stations(ctx context.Context) (*StationsResult, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, domain.NewError(domain.ErrDataNotLoaded, "schedule snapshot not loaded")
	}

	key := "stations:" + snap.Version
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != nil {
			var cached StationsResult
			if json.Unmarshal(raw, &cached) == nil {
				metrics.CacheHits.WithLabelValues("stations").Inc()
				return &cached, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("stations").Inc()
	}

	result := &StationsResult{Stations: snap.Stations, Count: len(snap.Stations)}
	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, key, data, s.cacheTTL)
		}
	}
	return result, nil
}

// ValidateAndDefault applies spec §4.g's validation and defaulting rules
// against snap. Returns a DataNotLoaded AppError when snap is nil, and a
// BadRequest or UnknownStation AppError when validation fails.
func (s *ItineraryService) ValidateAndDefault(snap *domain.Snapshot, raw RawPathRequest) (FindPathRequest, error) {
	if snap == nil {
		return FindPathRequest{}, domain.NewError(domain.ErrDataNotLoaded, "schedule snapshot not loaded")
	}

	if raw.StartStation == "" || raw.EndStation == "" {
		return FindPathRequest{}, domain.NewError(domain.ErrBadRequest, "start_station and end_station are required")
	}
	if raw.StartStation == raw.EndStation {
		return FindPathRequest{}, domain.NewError(domain.ErrBadRequest, "start_station and end_station must differ")
	}
	if !snap.HasStation(raw.StartStation) {
		return FindPathRequest{}, domain.NewError(domain.ErrUnknownStation, "unknown start_station %q", raw.StartStation)
	}
	if !snap.HasStation(raw.EndStation) {
		return FindPathRequest{}, domain.NewError(domain.ErrUnknownStation, "unknown end_station %q", raw.EndStation)
	}

	maxTransfers := DefaultMaxTransfers
	if raw.MaxTransfers != nil {
		maxTransfers = *raw.MaxTransfers
	}
	if maxTransfers < 0 || maxTransfers > s.maxTransfersCap {
		return FindPathRequest{}, domain.NewError(domain.ErrBadRequest, "max_transfers must be in [0,%d]", s.maxTransfersCap)
	}

	windowMinutes := s.defaultWindowMinutes
	if raw.WindowMinutes != nil {
		windowMinutes = *raw.WindowMinutes
	}
	if windowMinutes < 0 || windowMinutes > MaxWindowMinutes {
		return FindPathRequest{}, domain.NewError(domain.ErrBadRequest, "window_minutes must be in [0,%d]", MaxWindowMinutes)
	}

	allowSame := false
	if raw.AllowSameStationConsecutiveTransfers != nil {
		allowSame = *raw.AllowSameStationConsecutiveTransfers
	}

	return FindPathRequest{
		StartStation:                          raw.StartStation,
		EndStation:                            raw.EndStation,
		MaxTransfers:                          maxTransfers,
		WindowMinutes:                         windowMinutes,
		AllowSameStationConsecutiveTransfers: allowSame,
	}, nil
}

// RawPathRequest is the unvalidated, possibly-partial request as received
// from the transport layer.
type RawPathRequest struct {
	StartStation                          string
	EndStation                            string
	MaxTransfers                          *int
	WindowMinutes                         *int
	AllowSameStationConsecutiveTransfers *bool
}

// FindPath runs the full Received→Validating→Enumerating→Filtering→Merging
// pipeline and returns a Responded envelope, or a Rejected error.
func (s *ItineraryService) FindPath(ctx context.Context, raw RawPathRequest) (*Response, error) {
	ctx, span := tracer.Start(ctx, "itinerary.find_path")
	defer span.End()

	// Loaded once and threaded through validation and enumeration so a
	// reload mid-request can't validate against one snapshot and enumerate
	// against another.
	snap := s.snapshot.Load()

	req, err := s.ValidateAndDefault(snap, raw)
	if err != nil {
		span.SetAttributes(attribute.String("outcome", "rejected"))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("start_station", req.StartStation),
		attribute.String("end_station", req.EndStation),
		attribute.Int("max_transfers", req.MaxTransfers),
		attribute.Int("window_minutes", req.WindowMinutes),
	)

	cacheKey := cacheKeyFor(snap.Version, req)
	if s.cache != nil {
		if cached, ok := s.lookupCache(ctx, cacheKey); ok {
			metrics.CacheHits.WithLabelValues("path").Inc()
			return cached, nil
		}
		metrics.CacheMisses.WithLabelValues("path").Inc()
	}

	enumStart := time.Now()
	paths, stats, err := enumerate.FindPaths(ctx, snap, enumerate.Request{
		StartStation:                          req.StartStation,
		EndStation:                            req.EndStation,
		MaxTransfers:                          req.MaxTransfers,
		AllowSameStationConsecutiveTransfers: req.AllowSameStationConsecutiveTransfers,
	})
	metrics.EnumerationDuration.Observe(time.Since(enumStart).Seconds())
	if err != nil {
		span.RecordError(err)
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Kind == domain.ErrTimeout {
			metrics.EnumerationTimeouts.Inc()
		}
		return nil, err
	}

	metrics.PathsEnumerated.Add(float64(stats.PathsEnumerated))
	metrics.SkippedSameStationTransfers.Add(float64(stats.SkippedSameStationTransfers))
	metrics.SkippedDirectionIncompatible.Add(float64(stats.SkippedDirectionIncompatible))

	result := postprocess.Run(paths, req.WindowMinutes)

	resp := &Response{
		StartStation: req.StartStation,
		EndStation:   req.EndStation,
		Paths:        result.Paths,
		Summary: Summary{
			TotalPaths:     len(paths),
			FastestMinutes: result.FastestMinutes,
			WindowMinutes:  req.WindowMinutes,
			FilteredPaths:  result.FilteredPaths,
			MergedPaths:    result.MergedPaths,
		},
		Metadata: Metadata{
			MaxTransfers: req.MaxTransfers,
			GeneratedAt:  s.now(),
		},
	}

	if s.cache != nil {
		s.storeCache(ctx, cacheKey, resp)
	}

	return resp, nil
}

// cacheKeyFor builds a cache key over the full input to FindPath: the
// snapshot version plus every request field, so a reload (which changes
// version) never serves a response computed against a stale graph.
func cacheKeyFor(snapshotVersion string, req FindPathRequest) string {
	same := "0"
	if req.AllowSameStationConsecutiveTransfers {
		same = "1"
	}
	return "path:" + snapshotVersion + ":" + req.StartStation + ">" + req.EndStation +
		":" + strconv.Itoa(req.MaxTransfers) + ":" + strconv.Itoa(req.WindowMinutes) + ":" + same
}

func (s *ItineraryService) lookupCache(ctx context.Context, key string) (*Response, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == nil {
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (s *ItineraryService) storeCache(ctx context.Context, key string, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, data, s.cacheTTL)
}
