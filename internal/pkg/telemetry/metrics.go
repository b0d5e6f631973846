package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Pipeline
	MetricGenerationLatency = "generation.pipeline_latency"
	MetricProviderLatency   = "generation.provider_latency"
	MetricGeometryAge       = "geometry.age_seconds"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricRoutesGenerated = "business.routes_generated"
	MetricLiveFallbacks   = "business.live_render_fallbacks"
)
