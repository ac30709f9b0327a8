package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan Pipeline Metrics
var (
	// ScansTotal tracks completed scans by status
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scans_total",
			Help: "Total scans by status (ok/error)",
		},
		[]string{"status"},
	)

	// ScanDuration tracks end-to-end scan duration in seconds
	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scan_duration_seconds",
			Help:    "End-to-end scan duration in seconds (collect, extract, score, persist)",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// PostsCollected tracks posts collected by platform
	PostsCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posts_collected_total",
			Help: "Total posts collected by platform",
		},
		[]string{"platform"},
	)

	// MentionsExtracted tracks ticker mentions extracted from posts
	MentionsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mentions_extracted_total",
			Help: "Total ticker mentions extracted from collected posts",
		},
	)

	// TickersRanked tracks the size of the most recent ranking
	TickersRanked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tickers_ranked",
			Help: "Number of tickers in the most recent ranking",
		},
	)
)

// Alert Metrics
var (
	// AlertsSent tracks alerts delivered by channel
	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_sent_total",
			Help: "Total alerts sent by channel (slack/discord/webhook)",
		},
		[]string{"channel"},
	)

	// AlertErrors tracks alert delivery failures by channel
	AlertErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_errors_total",
			Help: "Total alert delivery failures by channel",
		},
		[]string{"channel"},
	)
)
