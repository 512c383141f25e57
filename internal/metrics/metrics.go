package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequestsTotal tracks every outbound attempt by upstream and outcome
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_upstream_requests_total",
			Help: "Total number of upstream request attempts",
		},
		[]string{"upstream", "outcome"},
	)

	// UpstreamLatency tracks upstream request latency
	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movies_upstream_latency_seconds",
			Help:    "Upstream request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	// UpstreamRetriesTotal counts attempts made after the first one
	UpstreamRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_upstream_retries_total",
			Help: "Total number of upstream retry attempts",
		},
		[]string{"upstream"},
	)

	// AggregationsTotal tracks movie aggregations by outcome
	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_aggregations_total",
			Help: "Total number of movie aggregations",
		},
		[]string{"outcome"},
	)

	// StreamPublishedTotal counts values published to a stream hub
	StreamPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_stream_published_total",
			Help: "Total number of values published to a stream",
		},
		[]string{"stream"},
	)

	// StreamDroppedTotal counts deliveries skipped because a subscriber was full
	StreamDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_stream_dropped_total",
			Help: "Total number of values dropped for slow subscribers",
		},
		[]string{"stream"},
	)

	// StreamSubscribers tracks currently attached subscribers
	StreamSubscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movies_stream_subscribers",
			Help: "Number of attached stream subscribers",
		},
		[]string{"stream"},
	)

	// DBConnectionPoolUsage tracks open connections as a percentage of the pool
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movies_db_connection_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
