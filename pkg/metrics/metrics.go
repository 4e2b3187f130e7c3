package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Database query latency (seconds)
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation"},
	)

	// MQ consume latency (milliseconds)
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	TicketCreatedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_created_count",
			Help: "Total number of tickets created",
		},
		[]string{"status"},
	)

	BoardRequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_request_count",
			Help: "Total number of board view requests",
		},
		[]string{"cache"}, // cache: hit, miss, bypass
	)

	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of slow database queries",
		},
	)

	MQPublishCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mq_publish_count",
			Help: "Total number of MQ messages published",
		},
		[]string{"routing_key", "status"}, // status: success, failed
	)
)

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration records database query latency.
func RecordDBQueryDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordMQConsumeLatency records MQ consumption latency.
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// IncrementTicketCreated increments the ticket creation counter.
func IncrementTicketCreated(status string) {
	TicketCreatedCount.WithLabelValues(status).Inc()
}

// IncrementBoardRequest increments the board request counter.
func IncrementBoardRequest(cache string) {
	BoardRequestCount.WithLabelValues(cache).Inc()
}

// IncrementSlowQuery increments the slow query counter.
func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}

// IncrementMQPublish increments the MQ publish counter.
func IncrementMQPublish(routingKey, status string) {
	MQPublishCount.WithLabelValues(routingKey, status).Inc()
}
