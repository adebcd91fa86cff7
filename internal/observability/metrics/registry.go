// Package metrics exposes Prometheus collectors for DreamsDoc.
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

const namespace = "dreamsdoc"

// Registry owns every collector. All methods are safe on a nil *Registry so
// components can run with metrics disabled.
type Registry struct {
	reg *prometheus.Registry

	operations      *prometheus.CounterVec
	operationTiming *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	evictions       prometheus.Counter
	activeViews     prometheus.Gauge
	uploads         *prometheus.CounterVec
}

var _ Sink = (*Registry)(nil)

// NewRegistry creates a registry with process and Go runtime collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Completed service operations.",
		}, []string{"component", "operation", "result", "error_class"}),
		operationTiming: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"component", "operation", "result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of served HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		backendRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests sent through the authenticated gateway.",
		}, []string{"method", "status"}),
		backendDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Round-trip time of backend requests.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"method"}),
		evictions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credential_evictions_total",
			Help:      "Credentials evicted after the backend rejected them.",
		}),
		activeViews: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_views_active",
			Help:      "Feed views currently polling.",
		}),
		uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_files_total",
			Help:      "Files uploaded to object storage.",
		}, []string{"category"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// RecordOperation implements Sink.
func (r *Registry) RecordOperation(component, operation, result, errorClass string, d time.Duration) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(component, operation, result, errorClass).Inc()
	if d > 0 {
		r.operationTiming.WithLabelValues(component, operation, result).Observe(d.Seconds())
	}
}

// ObserveHTTP records a served request. route is the mux pattern, never the raw path.
func (r *Registry) ObserveHTTP(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveBackend records a gateway round trip. status 0 means a transport failure.
func (r *Registry) ObserveBackend(method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.backendRequests.WithLabelValues(method, label).Inc()
	r.backendDuration.WithLabelValues(method).Observe(d.Seconds())
}

// CredentialEvicted counts one eviction.
func (r *Registry) CredentialEvicted() {
	if r == nil {
		return
	}
	r.evictions.Inc()
}

// SetActiveViews reports the number of live feed views.
func (r *Registry) SetActiveViews(n int) {
	if r == nil {
		return
	}
	r.activeViews.Set(float64(n))
}

// FileUploaded counts an uploaded file by MIME category.
func (r *Registry) FileUploaded(category string) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(category).Inc()
}
