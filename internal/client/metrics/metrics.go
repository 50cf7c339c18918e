// Package metrics exposes Prometheus counters for the data-sync layer.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	fetches   *prometheus.CounterVec
	retries   *prometheus.CounterVec
	discarded *prometheus.CounterVec
	mutations *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogsync",
			Name:      "fetches_total",
			Help:      "Resource fetches by family and outcome.",
		}, []string{"family", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogsync",
			Name:      "fetch_retries_total",
			Help:      "Automatic fetch retries by family and failure kind.",
		}, []string{"family", "kind"}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogsync",
			Name:      "stale_responses_discarded_total",
			Help:      "Responses dropped because the entry changed while they were in flight.",
		}, []string{"family"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogsync",
			Name:      "mutations_total",
			Help:      "Optimistic mutations by kind and final status.",
		}, []string{"kind", "status"}),
	}
	m.registry.MustRegister(m.fetches, m.retries, m.discarded, m.mutations)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) FetchCompleted(family, outcome string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(family, outcome).Inc()
}

func (m *Metrics) FetchRetried(family, kind string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(family, kind).Inc()
}

func (m *Metrics) ResponseDiscarded(family string) {
	if m == nil {
		return
	}
	m.discarded.WithLabelValues(family).Inc()
}

func (m *Metrics) MutationFinished(kind, status string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(kind, status).Inc()
}
