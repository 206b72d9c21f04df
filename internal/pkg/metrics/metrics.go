package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trenbide",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trenbide",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trenbide",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Engine metrics
	PathsEnumerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trenbide",
		Subsystem: "engine",
		Name:      "paths_enumerated_total",
		Help:      "Total itineraries emitted by the enumerator",
	})

	EnumerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trenbide",
		Subsystem: "engine",
		Name:      "enumeration_duration_seconds",
		Help:      "Duration of a single find_paths call",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})

	EnumerationTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trenbide",
		Subsystem: "engine",
		Name:      "enumeration_timeouts_total",
		Help:      "Total queries aborted by the per-request wall-clock timeout",
	})

	SkippedSameStationTransfers = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trenbide",
		Subsystem: "engine",
		Name:      "skipped_same_station_transfers_total",
		Help:      "Total DFS branches pruned by the repeat-station-transfer policy",
	})

	SkippedDirectionIncompatible = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trenbide",
		Subsystem: "engine",
		Name:      "skipped_direction_incompatible_total",
		Help:      "Total candidate paths rejected by the direction compatibility check",
	})

	SnapshotNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "trenbide",
		Subsystem: "engine",
		Name:      "snapshot_nodes",
		Help:      "Number of time-expanded graph nodes in the currently published snapshot",
	})

	SnapshotReloads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trenbide",
		Subsystem: "engine",
		Name:      "snapshot_reloads_total",
		Help:      "Total successful schedule snapshot reloads",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trenbide",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trenbide",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "trenbide",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "trenbide",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "trenbide",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics updates database pool metrics from pgx pool stats.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
