// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	Requests         *prometheus.CounterVec
	Predictions      *prometheus.CounterVec
	InferenceSeconds prometheus.Histogram
	Ready            prometheus.Gauge
}

// New creates the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leafscan",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leafscan",
			Name:      "predictions_total",
			Help:      "Successful predictions by severity and health.",
		}, []string{"severity", "healthy"}),
		InferenceSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leafscan",
			Name:      "inference_duration_seconds",
			Help:      "Time spent preprocessing and running the model.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		Ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "leafscan",
			Name:      "ready",
			Help:      "1 when the model and class index are loaded.",
		}),
	}
	reg.MustRegister(
		m.Requests,
		m.Predictions,
		m.InferenceSeconds,
		m.Ready,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest counts one finished HTTP request.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.Requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObservePrediction records a successful prediction.
func (m *Metrics) ObservePrediction(severity string, healthy bool, took time.Duration) {
	m.Predictions.WithLabelValues(severity, strconv.FormatBool(healthy)).Inc()
	m.InferenceSeconds.Observe(took.Seconds())
}

// SetReady updates the readiness gauge.
func (m *Metrics) SetReady(ready bool) {
	if ready {
		m.Ready.Set(1)
		return
	}
	m.Ready.Set(0)
}
