// Package metrics provides Prometheus metrics for the ingestion service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for UploadsTotal.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds all ingestion metrics. A nil or disabled *Metrics is safe to
// use; every Record method becomes a no-op.
type Metrics struct {
	// Counters
	UploadsTotal         *prometheus.CounterVec
	RowsTotal            *prometheus.CounterVec
	DefaultedFieldsTotal *prometheus.CounterVec
	RateLimitedTotal     *prometheus.CounterVec

	// Gauges
	ActiveUploads prometheus.Gauge

	// Histograms
	UploadDuration prometheus.Histogram
	UploadBytes    prometheus.Histogram

	registry *prometheus.Registry
	enabled  bool
}

// Config holds metrics configuration.
type Config struct {
	Enabled   bool
	Namespace string
}

// ApplyDefaults sets default values for metrics config.
func (c *Config) ApplyDefaults() {
	if c.Namespace == "" {
		c.Namespace = "aqingest"
	}
}

// New creates a new metrics instance with its own registry.
func New(cfg Config) *Metrics {
	cfg.ApplyDefaults()

	m := &Metrics{
		enabled:  cfg.Enabled,
		registry: prometheus.NewRegistry(),
	}

	if !cfg.Enabled {
		return m
	}

	m.UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "uploads_total",
			Help:      "Uploads processed by outcome and rejection reason",
		},
		[]string{"outcome", "reason"},
	)

	m.RowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "rows_total",
			Help:      "Data rows seen by status",
		},
		[]string{"status"}, // "accepted", "rejected"
	)

	m.DefaultedFieldsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "defaulted_fields_total",
			Help:      "Numeric fields substituted with 0 in accepted readings",
		},
		[]string{"field"},
	)

	m.RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "rate_limited_total",
			Help:      "Requests refused by the rate limiter",
		},
		[]string{"route"},
	)

	m.ActiveUploads = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "uploads_active",
			Help:      "Uploads currently holding a processing slot",
		},
	)

	m.UploadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "upload_duration_seconds",
			Help:      "Time to decode and validate one upload",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
	)

	m.UploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "upload_bytes",
			Help:      "Size of accepted upload payloads",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	m.registry.MustRegister(
		m.UploadsTotal,
		m.RowsTotal,
		m.DefaultedFieldsTotal,
		m.RateLimitedTotal,
		m.ActiveUploads,
		m.UploadDuration,
		m.UploadBytes,
	)

	m.registry.MustRegister(collectors.NewGoCollector())
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IsEnabled returns true if metrics are enabled.
func (m *Metrics) IsEnabled() bool {
	return m != nil && m.enabled
}

// RecordUpload counts one finished upload. reason is empty for accepted uploads.
func (m *Metrics) RecordUpload(outcome, reason string, duration time.Duration) {
	if !m.IsEnabled() {
		return
	}
	m.UploadsTotal.WithLabelValues(outcome, reason).Inc()
	m.UploadDuration.Observe(duration.Seconds())
}

// RecordRows adds to the accepted and rejected row counters.
func (m *Metrics) RecordRows(accepted, rejected int) {
	if !m.IsEnabled() {
		return
	}
	m.RowsTotal.WithLabelValues("accepted").Add(float64(accepted))
	m.RowsTotal.WithLabelValues("rejected").Add(float64(rejected))
}

// RecordDefaultedField increments the defaulted counter for one field key.
func (m *Metrics) RecordDefaultedField(field string) {
	if m.IsEnabled() {
		m.DefaultedFieldsTotal.WithLabelValues(field).Inc()
	}
}

// RecordUploadBytes observes the payload size of an upload.
func (m *Metrics) RecordUploadBytes(n int64) {
	if m.IsEnabled() {
		m.UploadBytes.Observe(float64(n))
	}
}

// RecordRateLimited counts a request refused by the rate limiter.
func (m *Metrics) RecordRateLimited(route string) {
	if m.IsEnabled() {
		m.RateLimitedTotal.WithLabelValues(route).Inc()
	}
}

// SetActiveUploads sets the active uploads gauge.
func (m *Metrics) SetActiveUploads(count int) {
	if m.IsEnabled() {
		m.ActiveUploads.Set(float64(count))
	}
}
