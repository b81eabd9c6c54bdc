package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const feedSubsystem = "feed"

// FeedMetricsCollector handles price feed request and cache metrics
type FeedMetricsCollector struct {
	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retries         *prometheus.CounterVec
	rateLimitWait   *prometheus.HistogramVec

	// Cache metrics
	cacheLookups *prometheus.CounterVec
}

// NewFeedMetricsCollector creates a new feed metrics collector
func NewFeedMetricsCollector() *FeedMetricsCollector {
	return &FeedMetricsCollector{
		// Total feed requests by endpoint and status code
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: feedSubsystem,
				Name:      "requests_total",
				Help:      "Total number of price feed requests by endpoint and status code",
			},
			[]string{"endpoint", "status_code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: feedSubsystem,
				Name:      "request_duration_seconds",
				Help:      "Price feed request duration distribution",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 20.0},
			},
			[]string{"endpoint"},
		),

		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: feedSubsystem,
				Name:      "retries_total",
				Help:      "Total number of price feed retry attempts",
			},
			[]string{"endpoint", "reason"},
		),

		rateLimitWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: feedSubsystem,
				Name:      "rate_limit_wait_seconds",
				Help:      "Time spent waiting for the feed rate limiter",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: feedSubsystem,
				Name:      "cache_lookups_total",
				Help:      "Feed cache lookups by payload kind and result",
			},
			[]string{"kind", "result"},
		),
	}
}

// Register registers all feed metrics with the Prometheus registry
func (c *FeedMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.requestsTotal,
		c.requestDuration,
		c.retries,
		c.rateLimitWait,
		c.cacheLookups,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordFeedRequest records a feed request completion
func (c *FeedMetricsCollector) RecordFeedRequest(endpoint string, statusCode int, duration float64) {
	c.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordFeedRetry records a feed retry attempt
func (c *FeedMetricsCollector) RecordFeedRetry(endpoint string, reason string) {
	c.retries.WithLabelValues(endpoint, reason).Inc()
}

// RecordRateLimitWait records time spent waiting for the rate limiter
func (c *FeedMetricsCollector) RecordRateLimitWait(endpoint string, duration float64) {
	c.rateLimitWait.WithLabelValues(endpoint).Observe(duration)
}

// RecordCacheLookup records a cache hit or miss
func (c *FeedMetricsCollector) RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(kind, result).Inc()
}
