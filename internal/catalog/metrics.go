package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeDegraded = "degraded"
)

// Metrics covers catalog lookups. A nil *Metrics records nothing.
type Metrics struct {
	Lookups        *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	CacheRequests  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homologation_catalog_lookups_total",
			Help: "Catalog lookups by lookup and outcome",
		}, []string{"lookup", "outcome"}), // outcome: hit, miss, degraded
		LookupDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homologation_catalog_lookup_duration_seconds",
			Help:    "Duration of catalog lookups including cache access",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"lookup"}),
		CacheRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homologation_catalog_cache_requests_total",
			Help: "Catalog cache reads by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveLookup(lookup, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(lookup, outcome).Inc()
	m.LookupDuration.WithLabelValues(lookup).Observe(d.Seconds())
}

func (m *Metrics) IncCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}
