package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests by route, method and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "argus",
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by route, method and status.",
	}, []string{"route", "method", "status"})

	// ComparisonsTotal counts pairwise submission comparisons.
	ComparisonsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "argus",
		Name:      "comparisons_total",
		Help:      "Pairwise submission comparisons performed.",
	})

	// ComparisonDuration observes the wall time of a single pairwise
	// comparison, including fingerprint overlap and LCS.
	ComparisonDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "argus",
		Name:      "comparison_duration_seconds",
		Help:      "Duration of a single pairwise comparison.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	// BatchRuns counts batch analyses by terminal status.
	BatchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "argus",
		Name:      "batch_runs_total",
		Help:      "Batch plagiarism runs, by terminal status.",
	}, []string{"status"})

	// FlaggedPairs counts pairs at or above the flagging threshold.
	FlaggedPairs = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "argus",
		Name:      "flagged_pairs_total",
		Help:      "Submission pairs flagged at or above the similarity threshold.",
	})

	// StreamMessages counts stream ingestion outcomes.
	StreamMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "argus",
		Name:      "stream_messages_total",
		Help:      "Submission stream messages, by outcome.",
	}, []string{"outcome"})
)
