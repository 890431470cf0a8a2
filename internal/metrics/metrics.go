package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code", "service"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "service"},
	)

	// Mock post store metrics
	PostOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mock_post_operations_total",
			Help: "Total number of mock post store operations",
		},
		[]string{"operation", "result"},
	)

	// News loader metrics
	NewsFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_fetches_total",
			Help: "Total number of outbound headline fetches",
		},
		[]string{"status"},
	)

	NewsFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "news_fetch_duration_seconds",
			Help:    "Outbound headline fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	NewsArticlesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "news_articles_fetched_total",
			Help: "Total number of normalized news items produced",
		},
	)

	// Session and event metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of live sessions",
		},
	)

	EventStreamConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_stream_connections_active",
			Help: "Number of active store event streams",
		},
	)

	NatsMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of NATS messages published",
		},
		[]string{"subject", "status"},
	)

	// Application health metrics
	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "application_info",
			Help: "Application information",
		},
		[]string{"service", "version", "environment"},
	)
)

// Init initializes metrics with default values
func Init(serviceName, version, environment string) {
	ApplicationInfo.WithLabelValues(serviceName, version, environment).Set(1)
}
