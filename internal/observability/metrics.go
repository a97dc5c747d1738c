package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabfeed_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collabfeed_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedRequests counts feed requests by mode (chronological, personalized, fallback).
	FeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabfeed_feed_requests_total",
		Help: "Feed requests served, by ranking mode",
	}, []string{"mode"})

	// FeedRankingFallbacks counts personalized requests that degraded to the chronological feed.
	FeedRankingFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabfeed_feed_ranking_fallbacks_total",
		Help: "Personalized feed requests served chronologically, by failed stage",
	}, []string{"stage"})

	// FeedRankingDuration records time spent scoring a candidate window.
	FeedRankingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "collabfeed_feed_ranking_duration_seconds",
		Help:    "Time spent loading signals and scoring a candidate window",
		Buckets: prometheus.DefBuckets,
	})

	// FeedCandidateWindow records the size of each scored candidate window.
	FeedCandidateWindow = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "collabfeed_feed_candidate_window_size",
		Help:    "Number of posts scored per personalized request",
		Buckets: []float64{0, 5, 15, 30, 60, 90, 150, 300},
	})

	// ExtractionOutcomes counts post text extraction runs by outcome.
	ExtractionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabfeed_extraction_outcomes_total",
		Help: "Hashtag and mention extraction runs by outcome",
	}, []string{"outcome"})

	// ExtractedEntities counts persisted hashtag links and mentions.
	ExtractedEntities = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabfeed_extracted_entities_total",
		Help: "Hashtag links and mentions written during extraction",
	}, []string{"kind"})

	// UnresolvedMentions counts @tokens that matched no user.
	UnresolvedMentions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collabfeed_unresolved_mentions_total",
		Help: "Mention tokens dropped because no user matched",
	})

	// EngagementEvents counts engagement mutations by kind.
	EngagementEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabfeed_engagement_events_total",
		Help: "Engagement mutations applied, by kind",
	}, []string{"kind"})

	// CacheLookups counts cache-aside lookups by key family and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabfeed_cache_lookups_total",
		Help: "Cache-aside lookups by key family and result (hit, miss, error)",
	}, []string{"family", "result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
