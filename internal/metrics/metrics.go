package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dota_dashboard_api_requests_total",
		Help: "Requests sent to the OpenDota API by outcome (status code or network_error)",
	}, []string{"outcome"})

	apiRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dota_dashboard_api_request_duration_seconds",
		Help:    "Duration of OpenDota API requests",
		Buckets: prometheus.DefBuckets,
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dota_dashboard_match_cache_lookups_total",
		Help: "Match cache lookups by result (hit, miss, expired)",
	}, []string{"result"})

	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dota_dashboard_match_cache_entries",
		Help: "Entries currently held in the match cache",
	})

	SummaryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dota_dashboard_summary_errors_total",
		Help: "Per-identifier errors collected while building summaries, by kind",
	}, []string{"kind"})
)

func ObserveAPIRequest(d time.Duration) {
	apiRequestDuration.Observe(d.Seconds())
}
