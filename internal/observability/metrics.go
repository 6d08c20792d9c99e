package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the dashboard backend.
type Metrics struct {
	RowsAccepted prometheus.Counter
	RowsRejected prometheus.Counter

	FilterApplies   prometheus.Counter
	FilterCacheHits prometheus.Counter

	SelectionResolved prometheus.Counter
	SelectionResets   prometheus.Counter

	ActiveSessions prometheus.Gauge

	LookupRequests *prometheus.CounterVec // labels: outcome={hit,miss,error}
}

// NewMetrics creates and registers all instruments with the default registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "landslides",
			Name:      "catalog_rows_accepted_total",
			Help:      "Catalog rows that passed load validation.",
		}),
		RowsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "landslides",
			Name:      "catalog_rows_rejected_total",
			Help:      "Catalog rows rejected during load validation.",
		}),
		FilterApplies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "landslides",
			Name:      "filter_applies_total",
			Help:      "Filter recomputations over the catalog.",
		}),
		FilterCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "landslides",
			Name:      "filter_cache_hits_total",
			Help:      "Filter applications answered from the memoized result.",
		}),
		SelectionResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "landslides",
			Name:      "selection_resolved_total",
			Help:      "Marker clicks resolved from counter snapshots.",
		}),
		SelectionResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "landslides",
			Name:      "selection_resets_total",
			Help:      "Selection resolver resets, including defensive ones.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "landslides",
			Name:      "active_sessions",
			Help:      "Dashboard sessions currently tracked.",
		}),
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landslides",
			Name:      "lookup_requests_total",
			Help:      "Encyclopedia lookups by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.RowsAccepted,
		m.RowsRejected,
		m.FilterApplies,
		m.FilterCacheHits,
		m.SelectionResolved,
		m.SelectionResets,
		m.ActiveSessions,
		m.LookupRequests,
	)

	return m
}
