package telemetry

// SLI metric names used for dashboards and alerting descriptions; the
// Prometheus series themselves live in internal/pkg/metrics.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricScheduleAge = "schedule.document_age_seconds"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Engine
	MetricPathsEnumerated = "engine.paths_enumerated"
	MetricEnumerationTimeouts = "engine.enumeration_timeouts"
)
