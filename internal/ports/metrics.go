package ports

// Metric names understood by Observability implementations.
const (
	MetricPublished  = "watercoin_readings_published_total"
	MetricDLQ        = "watercoin_dlq_total"
	MetricQueueDrops = "watercoin_queue_dropped_total"
	MetricOverrides  = "watercoin_overrides_applied_total"
	MetricSinkErrors = "watercoin_sink_errors_total"

	MetricQueueLength = "watercoin_queue_length"
	MetricDevices     = "watercoin_devices"

	MetricSinkLatency = "watercoin_sink_latency_seconds"
	MetricTickLatency = "watercoin_tick_latency_seconds"
)
