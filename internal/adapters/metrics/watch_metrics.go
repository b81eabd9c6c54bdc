package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const watchSubsystem = "watch"

// WatchMetricsCollector handles watchlist refresh and price alert metrics
type WatchMetricsCollector struct {
	refreshesTotal  *prometheus.CounterVec
	watchlistSize   prometheus.Gauge
	alertsActive    prometheus.Gauge
	alertsTriggered *prometheus.CounterVec
}

// NewWatchMetricsCollector creates a new watch metrics collector
func NewWatchMetricsCollector() *WatchMetricsCollector {
	return &WatchMetricsCollector{
		refreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: watchSubsystem,
				Name:      "refreshes_total",
				Help:      "Watchlist refresh passes by status",
			},
			[]string{"status"},
		),
		watchlistSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: watchSubsystem,
			Name:      "watchlist_size",
			Help:      "Items currently on the watchlist",
		}),
		alertsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: watchSubsystem,
			Name:      "alerts_active",
			Help:      "Price alerts still waiting to fire",
		}),
		alertsTriggered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: watchSubsystem,
				Name:      "alerts_triggered_total",
				Help:      "Price alerts fired by direction",
			},
			[]string{"direction"},
		),
	}
}

// Register registers all watch metrics with the Prometheus registry
func (c *WatchMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	for _, metric := range []prometheus.Collector{
		c.refreshesTotal,
		c.watchlistSize,
		c.alertsActive,
		c.alertsTriggered,
	} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordWatchRefresh records a refresh pass over the watchlist
func (c *WatchMetricsCollector) RecordWatchRefresh(watched int, err error) {
	c.refreshesTotal.WithLabelValues(statusLabel(err)).Inc()
	if err == nil {
		c.watchlistSize.Set(float64(watched))
	}
}

// RecordAlertCheck records an alert sweep: the alerts still active afterwards
// and how many fired per direction
func (c *WatchMetricsCollector) RecordAlertCheck(active int, triggered map[string]int) {
	c.alertsActive.Set(float64(active))
	for direction, n := range triggered {
		c.alertsTriggered.WithLabelValues(direction).Add(float64(n))
	}
}

// AlertsTriggered exposes the fired-alert counter for inspection
func (c *WatchMetricsCollector) AlertsTriggered() *prometheus.CounterVec {
	return c.alertsTriggered
}
