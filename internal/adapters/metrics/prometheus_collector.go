package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace for all metrics
const namespace = "geflip"

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// Singleton collectors, set when metrics are enabled
	globalFeedCollector       FeedMetricsRecorder
	globalSuggestionCollector SuggestionMetricsRecorder
	globalWatchCollector      WatchMetricsRecorder
)

// FeedMetricsRecorder records price feed traffic
type FeedMetricsRecorder interface {
	RecordFeedRequest(endpoint string, statusCode int, duration float64)
	RecordFeedRetry(endpoint string, reason string)
	RecordRateLimitWait(endpoint string, duration float64)
	RecordCacheLookup(kind string, hit bool)
}

// SuggestionMetricsRecorder records suggestion engine runs
type SuggestionMetricsRecorder interface {
	RecordSuggestionRun(priceSource string, duration float64, returned int, bestProfitPerHour float64, err error)
}

// WatchMetricsRecorder records watchlist refreshes and price alerts
type WatchMetricsRecorder interface {
	RecordWatchRefresh(watched int, err error)
	RecordAlertCheck(active int, triggered map[string]int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Enable creates the registry and registers every collector globally
func Enable() error {
	InitRegistry()

	feed := NewFeedMetricsCollector()
	if err := feed.Register(); err != nil {
		return err
	}
	suggestions := NewSuggestionMetricsCollector()
	if err := suggestions.Register(); err != nil {
		return err
	}
	watch := NewWatchMetricsCollector()
	if err := watch.Register(); err != nil {
		return err
	}

	SetGlobalFeedCollector(feed)
	SetGlobalSuggestionCollector(suggestions)
	SetGlobalWatchCollector(watch)
	return nil
}

// Disable clears the registry and global collectors
func Disable() {
	Registry = nil
	globalFeedCollector = nil
	globalSuggestionCollector = nil
	globalWatchCollector = nil
}

// SetGlobalFeedCollector sets the global feed metrics collector
func SetGlobalFeedCollector(collector FeedMetricsRecorder) {
	globalFeedCollector = collector
}

// SetGlobalSuggestionCollector sets the global suggestion metrics collector
func SetGlobalSuggestionCollector(collector SuggestionMetricsRecorder) {
	globalSuggestionCollector = collector
}

// SetGlobalWatchCollector sets the global watch metrics collector
func SetGlobalWatchCollector(collector WatchMetricsRecorder) {
	globalWatchCollector = collector
}

// RecordFeedRequest records a completed feed request globally
func RecordFeedRequest(endpoint string, statusCode int, duration float64) {
	if globalFeedCollector != nil {
		globalFeedCollector.RecordFeedRequest(endpoint, statusCode, duration)
	}
}

// RecordFeedRetry records a feed retry globally
func RecordFeedRetry(endpoint string, reason string) {
	if globalFeedCollector != nil {
		globalFeedCollector.RecordFeedRetry(endpoint, reason)
	}
}

// RecordRateLimitWait records time spent waiting on the feed rate limiter
func RecordRateLimitWait(endpoint string, duration float64) {
	if globalFeedCollector != nil {
		globalFeedCollector.RecordRateLimitWait(endpoint, duration)
	}
}

// RecordCacheLookup records a cache hit or miss globally
func RecordCacheLookup(kind string, hit bool) {
	if globalFeedCollector != nil {
		globalFeedCollector.RecordCacheLookup(kind, hit)
	}
}

// RecordSuggestionRun records a suggestion engine run globally
func RecordSuggestionRun(priceSource string, duration float64, returned int, bestProfitPerHour float64, err error) {
	if globalSuggestionCollector != nil {
		globalSuggestionCollector.RecordSuggestionRun(priceSource, duration, returned, bestProfitPerHour, err)
	}
}

// RecordWatchRefresh records a watchlist refresh globally
func RecordWatchRefresh(watched int, err error) {
	if globalWatchCollector != nil {
		globalWatchCollector.RecordWatchRefresh(watched, err)
	}
}

// RecordAlertCheck records an alert sweep globally
func RecordAlertCheck(active int, triggered map[string]int) {
	if globalWatchCollector != nil {
		globalWatchCollector.RecordAlertCheck(active, triggered)
	}
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
