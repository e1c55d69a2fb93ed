// Package metrics provides Prometheus metrics for the detection service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Detection outcome labels.
const (
	OutcomeDetected     = "detected"
	OutcomeFallback     = "fallback"
	OutcomeNotDetected  = "not_detected"
	OutcomeIncompatible = "incompatible_type"
	OutcomeError        = "error"
)

// Metrics holds all Prometheus metrics for geosniff. Each instance carries
// its own registry so construction is repeatable.
type Metrics struct {
	registry *prometheus.Registry

	DetectionsTotal   *prometheus.CounterVec
	DetectionDuration *prometheus.HistogramVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(registry)
	m := &Metrics{registry: registry}

	m.DetectionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geosniff_detections_total",
			Help: "Total number of detection requests by outcome",
		},
		[]string{"outcome"},
	)

	m.DetectionDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geosniff_detection_duration_seconds",
			Help:    "Duration of detection runs in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geosniff_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geosniff_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	return m
}

// RecordDetection records one detection run with its outcome.
func (m *Metrics) RecordDetection(outcome string, duration time.Duration) {
	m.DetectionsTotal.WithLabelValues(outcome).Inc()
	m.DetectionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
