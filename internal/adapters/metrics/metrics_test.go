package metrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/adapters/metrics"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
)

type suggestQuery struct{}

func TestEnable_RecordsThroughGlobalCollectors(t *testing.T) {
	// Arrange
	require.NoError(t, metrics.Enable())
	t.Cleanup(metrics.Disable)

	// Act
	metrics.RecordFeedRequest("/latest", 200, 0.2)
	metrics.RecordFeedRetry("/latest", "503")
	metrics.RecordCacheLookup("latest", true)
	metrics.RecordCacheLookup("latest", false)
	metrics.RecordSuggestionRun("latest", 0.5, 7, 9000, nil)
	metrics.RecordSuggestionRun("latest", 0.1, 0, 0, errors.New("feed down"))
	metrics.RecordWatchRefresh(12, nil)
	metrics.RecordAlertCheck(3, map[string]int{"below": 2})

	// Assert
	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, name := range []string{
		"geflip_feed_requests_total",
		"geflip_feed_retries_total",
		"geflip_feed_cache_lookups_total",
		"geflip_engine_runs_total",
		"geflip_engine_suggestions_returned",
		"geflip_watch_watchlist_size",
		"geflip_watch_alerts_triggered_total",
	} {
		assert.True(t, names[name], name)
	}
}

func TestSuggestionCollector_GaugesIgnoreFailedRuns(t *testing.T) {
	// Arrange
	c := metrics.NewSuggestionMetricsCollector()

	// Act
	c.RecordSuggestionRun("1h", 0.1, 5, 1234, nil)
	c.RecordSuggestionRun("1h", 0.1, 0, 0, errors.New("boom"))

	// Assert
	assert.Equal(t, 2, testutil.CollectAndCount(c.RunsTotal()))
}

func TestWatchCollector_CountsAlertsByDirection(t *testing.T) {
	// Arrange
	c := metrics.NewWatchMetricsCollector()

	// Act
	c.RecordAlertCheck(4, map[string]int{"below": 2, "above": 1})
	c.RecordAlertCheck(3, map[string]int{"below": 1})

	// Assert
	assert.Equal(t, float64(3), testutil.ToFloat64(c.AlertsTriggered().WithLabelValues("below")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.AlertsTriggered().WithLabelValues("above")))
}

func TestRecordFunctions_NoopWhenDisabled(t *testing.T) {
	metrics.Disable()

	assert.False(t, metrics.IsEnabled())
	assert.NotPanics(t, func() {
		metrics.RecordFeedRequest("/1h", 500, 1)
		metrics.RecordSuggestionRun("latest", 1, 1, 1, nil)
		metrics.RecordAlertCheck(0, nil)
	})
}

func TestPrometheusMiddleware_PassesThrough(t *testing.T) {
	// Arrange
	collector := metrics.NewCommandMetricsCollector()
	mw := metrics.PrometheusMiddleware(collector)
	next := func(ctx context.Context, req mediator.Request) (mediator.Response, error) {
		return "ok", nil
	}

	// Act
	resp, err := mw(context.Background(), &suggestQuery{}, next)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestServe_RequiresEnabledRegistry(t *testing.T) {
	metrics.Disable()

	err := metrics.Serve(context.Background(), "127.0.0.1:0", "/metrics")

	assert.Error(t, err)
}
