package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/strata/internal"
)

// Metrics holds the HTTP collectors. Create it once per registry with
// NewMetrics and install Middleware (and optionally Endpoint) on the app.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
	gatherer prometheus.Gatherer
}

// MetricsConfig configures NewMetrics.
type MetricsConfig struct {
	Namespace  string
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Buckets    []float64
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace prefixes every metric name.
func WithMetricsNamespace(ns string) MetricsOption {
	return func(cfg *MetricsConfig) {
		cfg.Namespace = ns
	}
}

// WithMetricsRegistry registers the collectors with reg instead of the
// default registry and serves it from Endpoint.
func WithMetricsRegistry(reg *prometheus.Registry) MetricsOption {
	return func(cfg *MetricsConfig) {
		cfg.Registerer = reg
		cfg.Gatherer = reg
	}
}

// WithMetricsBuckets sets the request duration histogram buckets.
func WithMetricsBuckets(buckets ...float64) MetricsOption {
	return func(cfg *MetricsConfig) {
		cfg.Buckets = buckets
	}
}

// NewMetrics creates and registers the HTTP collectors:
//
//   - http_requests_total (counter): method, status
//   - http_request_duration_seconds (histogram): method
//   - http_requests_in_flight (gauge)
//
// It panics when the collectors are already registered.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := &MetricsConfig{
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
		Buckets:    prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration",
				Buckets:   cfg.Buckets,
			},
			[]string{"method"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_in_flight",
				Help:      "HTTP requests being processed",
			},
		),
		gatherer: cfg.Gatherer,
	}

	cfg.Registerer.MustRegister(m.requests, m.duration, m.inFlight)
	return m
}

// Middleware records every exchange that passes through it. The status is
// read on the way out: the error status when downstream failed, the
// response status otherwise.
func (m *Metrics) Middleware() internal.Middleware {
	return func(c internal.Context, next internal.Next) error {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		err := next()

		m.requests.WithLabelValues(c.Method(), strconv.Itoa(statusOf(c, err))).Inc()
		m.duration.WithLabelValues(c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

// Endpoint serves the gathered metrics on GET path and passes every other
// request downstream. The response is written by the Prometheus handler,
// so the finalizer is bypassed.
func (m *Metrics) Endpoint(path string) internal.Middleware {
	h := promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})

	return func(c internal.Context, next internal.Next) error {
		if c.Path() != path || (c.Method() != http.MethodGet && c.Method() != http.MethodHead) {
			return next()
		}
		c.SetRespond(false)
		h.ServeHTTP(c.Res(), c.Req())
		return nil
	}
}

// statusOf returns the status the exchange will be answered with.
func statusOf(c internal.Context, err error) int {
	if err == nil {
		return c.Status()
	}
	return internal.ErrorStatus(err)
}
