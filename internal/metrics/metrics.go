// Package metrics holds the Prometheus collectors of the catalog API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

type Metrics struct {
	Registry *prometheus.Registry

	// SelectionsServed counts featured/latest selections by kind and source (live, snapshot)
	SelectionsServed *prometheus.CounterVec
	SelectionSize    *prometheus.HistogramVec
	StorageErrors    *prometheus.CounterVec
	SearchCache      *prometheus.CounterVec
	Rotations        *prometheus.CounterVec
}

// New registers every collector on a private registry, together with the
// Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SelectionsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_served_total",
			Help:      "Featured and latest selections served.",
		}, []string{"kind", "source"}),
		SelectionSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_size",
			Help:      "Number of items in a served selection.",
			Buckets:   []float64{0, 1, 2, 4, 6, 8, 12, 16, 24, 50},
		}, []string{"kind"}),
		StorageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Failed storage operations.",
		}, []string{"op"}),
		SearchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_requests_total",
			Help:      "Search cache lookups by result.",
		}, []string{"result"}),
		Rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "featured_rotations_total",
			Help:      "Scheduled featured selection recomputations by status.",
		}, []string{"status"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SelectionsServed,
		m.SelectionSize,
		m.StorageErrors,
		m.SearchCache,
		m.Rotations,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) ObserveSelection(kind, source string, size int) {
	if m == nil {
		return
	}
	m.SelectionsServed.WithLabelValues(kind, source).Inc()
	m.SelectionSize.WithLabelValues(kind).Observe(float64(size))
}

func (m *Metrics) StorageError(op string) {
	if m == nil {
		return
	}
	m.StorageErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SearchCache.WithLabelValues(result).Inc()
}

func (m *Metrics) Rotation(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Rotations.WithLabelValues(status).Inc()
}
