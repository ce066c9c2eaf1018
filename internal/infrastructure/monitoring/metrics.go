package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the runtime.
type Metrics struct {
	// Policy callback metrics
	PolicyDecisions  *prometheus.CounterVec
	WindowOpenDenied prometheus.Counter

	// Application metrics
	ApplicationsInstalled prometheus.Gauge
	ApplicationsRunning   prometheus.Gauge

	// Storage partition metrics
	PartitionsActive prometheus.Gauge

	// Bridge metrics
	BridgeCalls    *prometheus.CounterVec
	BridgeDuration *prometheus.HistogramVec

	// Admin HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	startTime time.Time
}

// NewMetrics creates the runtime metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		PolicyDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xwalk_policy_decisions_total",
				Help: "Policy callback decisions by callback and outcome",
			},
			[]string{"callback", "outcome"},
		),
		WindowOpenDenied: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "xwalk_window_open_denied_total",
				Help: "Window-open requests denied by application URL policy",
			},
		),

		ApplicationsInstalled: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "xwalk_applications_installed",
				Help: "Number of installed applications",
			},
		),
		ApplicationsRunning: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "xwalk_applications_running",
				Help: "Number of running application instances",
			},
		),

		PartitionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "xwalk_storage_partitions_active",
				Help: "Number of live storage partition request contexts",
			},
		),

		BridgeCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xwalk_bridge_calls_total",
				Help: "Contents-client bridge calls by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		BridgeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xwalk_bridge_duration_seconds",
				Help:    "Contents-client bridge call duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"endpoint"},
		),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xwalk_admin_http_requests_total",
				Help: "Total admin HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xwalk_admin_http_request_duration_seconds",
				Help:    "Admin HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "xwalk_ws_connections",
				Help: "Active decision stream connections",
			},
		),
	}
}

// RecordDecision counts a policy callback decision. Safe on a nil receiver
// so policy paths need no metrics guard.
func (m *Metrics) RecordDecision(callback, outcome string) {
	if m == nil {
		return
	}
	m.PolicyDecisions.WithLabelValues(callback, outcome).Inc()
}

// RecordBridgeCall counts a bridge call and observes its duration.
func (m *Metrics) RecordBridgeCall(endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.BridgeCalls.WithLabelValues(endpoint, status).Inc()
	m.BridgeDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordHTTPRequest records an admin HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Uptime returns time since the collector was created.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
