package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swg",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"}, // "ok" / "error" / "disabled"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "swg",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration including result resolution",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SearchHitsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "swg",
			Name:      "search_hits_dropped_total",
			Help:      "Hits dropped during resolution (unknown type or not found)",
		},
	)

	BatchChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swg",
			Name:      "batch_chunks_total",
			Help:      "Batch resolution chunk lookups",
		},
		[]string{"status"}, // "ok" / "error"
	)

	ObjectCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swg",
			Name:      "object_cache_total",
			Help:      "Object lookup cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchHitsDroppedTotal)
	prometheus.MustRegister(BatchChunksTotal)
	prometheus.MustRegister(ObjectCacheTotal)
	searchMetricsRegistered = true
}
