// Package monitoring provides Prometheus metrics for the runtime.
//
// Collected metrics cover the policy callback surface (decision counters by
// callback and outcome), the application service (installed/running gauges),
// storage partitions, the contents-client bridge, and the admin HTTP server
// (request counters and latency histograms via the Gin middleware).
//
// Metrics register against the default Prometheus registry; construct one
// Metrics per process and expose it on /metrics with promhttp.
package monitoring
