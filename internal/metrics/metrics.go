// Package metrics holds the Prometheus collectors for routing, zone edits
// and the directions provider.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RouteDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zeroemission_route_decisions_total",
		Help: "Routing decisions by outcome",
	}, []string{"outcome"})
	ZoneEditsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zeroemission_zone_edits_total",
		Help: "Zone edits by edit kind and result",
	}, []string{"edit", "result"})
	HitTestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zeroemission_hit_tests_total",
		Help: "Total point hit-tests against the zone index",
	})
	DirectionsRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zeroemission_directions_requests_total",
		Help: "Total directions provider requests",
	})
	DirectionsFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zeroemission_directions_fallback_total",
		Help: "Legs drawn as straight lines after a provider failure",
	})
	DirectionsDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "zeroemission_directions_duration_ms",
		Help:    "Directions provider call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zeroemission_directions_cache_hits_total",
		Help: "Total directions cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zeroemission_directions_cache_misses_total",
		Help: "Total directions cache misses",
	})
)

func init() {
	prometheus.MustRegister(RouteDecisionsTotal)
	prometheus.MustRegister(ZoneEditsTotal)
	prometheus.MustRegister(HitTestsTotal)
	prometheus.MustRegister(DirectionsRequestsTotal)
	prometheus.MustRegister(DirectionsFallbackTotal)
	prometheus.MustRegister(DirectionsDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

// Handler serves the registered metrics for scraping at /metrics.
func Handler() http.Handler { return promhttp.Handler() }
