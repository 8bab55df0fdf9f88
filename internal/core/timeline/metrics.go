package timeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for fan-out and feed assembly. Registered once at
// package load against the default registry.
var (
	fanoutPostsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roost",
		Subsystem: "timeline",
		Name:      "fanout_posts_total",
		Help:      "Posts processed by the fan-out engine, by chosen strategy",
	}, []string{"mode"})

	fanoutDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roost",
		Subsystem: "timeline",
		Name:      "fanout_deliveries_total",
		Help:      "Per-follower cache deliveries, by outcome",
	}, []string{"status"})

	fanoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "roost",
		Subsystem: "timeline",
		Name:      "fanout_duration_seconds",
		Help:      "Wall time to fan one post out to all followers",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
	})

	assembleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "roost",
		Subsystem: "timeline",
		Name:      "assemble_duration_seconds",
		Help:      "Wall time to assemble a home timeline, by serving path",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
	}, []string{"source"})

	assembleDegradedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roost",
		Subsystem: "timeline",
		Name:      "assemble_degraded_total",
		Help:      "Timeline reads that were missing at least one contribution",
	})

	cacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roost",
		Subsystem: "timeline",
		Name:      "cache_requests_total",
		Help:      "Cache lookups by record state",
	}, []string{"state"})

	cacheRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "roost",
		Subsystem: "timeline",
		Name:      "cache_records",
		Help:      "Timeline records currently held in memory",
	})

	cacheEvictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roost",
		Subsystem: "timeline",
		Name:      "cache_evictions_total",
		Help:      "Records evicted by the LRU bound",
	})
)
