// Package metrics exposes refresh and upstream-call counters in Prometheus
// format. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess  = "success"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

type Recorder struct {
	registry *prometheus.Registry

	refreshTotal    *prometheus.CounterVec
	refreshRecords  *prometheus.GaugeVec
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	storeErrors     *prometheus.CounterVec
}

func New() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: registry,
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmer_refresh_total",
			Help: "Refresh invocations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		refreshRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "farmer_refresh_records",
			Help: "Records normalized by the most recent refresh.",
		}, []string{"kind"}),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmer_upstream_requests_total",
			Help: "Upstream API calls by source and status code.",
		}, []string{"source", "code"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "farmer_upstream_duration_seconds",
			Help:    "Upstream API call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmer_store_write_errors_total",
			Help: "Failed storage writes by table.",
		}, []string{"table"}),
	}
	registry.MustRegister(r.refreshTotal, r.refreshRecords, r.upstreamTotal, r.upstreamLatency, r.storeErrors)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Refresh counts one refresh of kind ("weather", "news", "market", ...).
func (r *Recorder) Refresh(kind, outcome string, records int) {
	if r == nil {
		return
	}
	r.refreshTotal.WithLabelValues(kind, outcome).Inc()
	if outcome != OutcomeError {
		r.refreshRecords.WithLabelValues(kind).Set(float64(records))
	}
}

// Upstream records one outbound call. A zero status means the request never
// got a response and is counted under code "error".
func (r *Recorder) Upstream(source string, status int, took time.Duration) {
	if r == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.upstreamTotal.WithLabelValues(source, code).Inc()
	r.upstreamLatency.WithLabelValues(source).Observe(took.Seconds())
}

func (r *Recorder) StoreError(table string) {
	if r == nil {
		return
	}
	r.storeErrors.WithLabelValues(table).Inc()
}
