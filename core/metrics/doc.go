// Package metrics exposes Prometheus metrics for catalog synchronization.
//
// SyncMetrics is a prometheus.Collector registered on a caller-supplied registry,
// so tests can use a private prometheus.NewRegistry() and the server can serve the
// same registry at /metrics.
package metrics
