package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ppsp"

// Submission outcomes.
const (
	OutcomeDelivered   = "delivered"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid_input"
	OutcomeConfig      = "config_missing"
	OutcomeFailed      = "delivery_failed"
	OutcomeInFlight    = "in_flight"
)

// Metrics holds every collector the site exports.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ContactSubmissions *prometheus.CounterVec
	RelayDuration      *prometheus.HistogramVec
	ActiveVisitors     prometheus.Gauge
	ThrottleBlocks     prometheus.Counter
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		ContactSubmissions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contact_submissions_total",
				Help:      "Contact form submissions by outcome",
			},
			[]string{"outcome"},
		),
		RelayDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "relay_send_duration_seconds",
				Help:      "Time spent delivering a contact message to the relay",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			},
			[]string{"driver", "result"},
		),
		ActiveVisitors: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "contact_active_visitors",
				Help:      "Visitors with a live contact controller",
			},
		),
		ThrottleBlocks: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "throttle_blocks_total",
				Help:      "Requests rejected by the per-IP throttle",
			},
		),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordSubmission counts one submission outcome.
func (m *Metrics) RecordSubmission(outcome string) {
	m.ContactSubmissions.WithLabelValues(outcome).Inc()
}

// ObserveRelay matches relay.Observer.
func (m *Metrics) ObserveRelay(_ context.Context, driver string, took time.Duration, err error) {
	result := "ok"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		result = "timeout"
	case err != nil:
		result = "error"
	}
	m.RelayDuration.WithLabelValues(driver, result).Observe(took.Seconds())
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, took time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
