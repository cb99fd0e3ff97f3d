package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and shard-cache Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simsearch",
			Name:      "searches_total",
			Help:      "Total number of similarity searches",
		},
		[]string{"status"}, // "success" / "error"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "simsearch",
			Name:      "search_duration_seconds",
			Help:      "End-to-end similarity search duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "simsearch",
			Name:      "search_candidates",
			Help:      "Candidates surviving filters per search",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	ShardLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simsearch",
			Name:      "shard_loads_total",
			Help:      "Shard bundle loads from disk",
		},
		[]string{"status"}, // "success" / "error"
	)

	ShardLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "simsearch",
			Name:      "shard_load_duration_seconds",
			Help:      "Shard bundle load duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ShardCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simsearch",
			Name:      "shard_cache_total",
			Help:      "Shard bundle cache hits, misses, and evictions",
		},
		[]string{"result"}, // "hit" / "miss" / "eviction"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(ShardLoadsTotal)
	prometheus.MustRegister(ShardLoadDuration)
	prometheus.MustRegister(ShardCacheTotal)
	searchMetricsRegistered = true
}
