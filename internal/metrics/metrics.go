// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records lookup timings and outcomes in a Prometheus
// registry and serves them over HTTP.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/clingen/internal/lookup"
)

const namespace = "clingen"

// statusError labels lookups that failed before producing an outcome.
const statusError = "error"

var _ lookup.Observer = (*Recorder)(nil)

// Recorder implements lookup.Observer on a private registry so tests and
// multiple servers never collide on the default one.
type Recorder struct {
	registry     *prometheus.Registry
	lookups      *prometheus.CounterVec
	queries      *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec
	publications prometheus.Histogram
}

// NewRecorder creates a Recorder with its collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Gene lookups by outcome status.",
		}, []string{"status"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mine_queries_total",
			Help:      "MouseMine queries by query name and result.",
		}, []string{"query", "result"}),
		queryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mine_query_duration_seconds",
			Help:      "MouseMine query latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"query"}),
		publications: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_publications",
			Help:      "Publications kept per successful lookup.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	r.registry.MustRegister(r.lookups, r.queries, r.queryLatency, r.publications)
	return r
}

// ObserveQuery records one MouseMine round trip.
func (r *Recorder) ObserveQuery(query string, elapsed time.Duration, _ int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.queries.WithLabelValues(query, result).Inc()
	r.queryLatency.WithLabelValues(query).Observe(elapsed.Seconds())
}

// ObserveLookup records a finished lookup.
func (r *Recorder) ObserveLookup(status lookup.OutcomeStatus, count int, err error) {
	if err != nil {
		r.lookups.WithLabelValues(statusError).Inc()
		return
	}
	r.lookups.WithLabelValues(string(status)).Inc()
	if status == lookup.StatusFound {
		r.publications.Observe(float64(count))
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
