package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const engineSubsystem = "engine"

// SuggestionMetricsCollector handles suggestion engine run metrics
type SuggestionMetricsCollector struct {
	runsTotal         *prometheus.CounterVec
	runDuration       *prometheus.HistogramVec
	returned          *prometheus.GaugeVec
	bestProfitPerHour *prometheus.GaugeVec
}

// NewSuggestionMetricsCollector creates a new suggestion metrics collector
func NewSuggestionMetricsCollector() *SuggestionMetricsCollector {
	return &SuggestionMetricsCollector{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: engineSubsystem,
				Name:      "runs_total",
				Help:      "Suggestion runs by price source and status",
			},
			[]string{"price_source", "status"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: engineSubsystem,
				Name:      "run_duration_seconds",
				Help:      "Time to generate a ranked suggestion list, feeds included",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"price_source"},
		),

		returned: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: engineSubsystem,
				Name:      "suggestions_returned",
				Help:      "Number of suggestions returned by the last run",
			},
			[]string{"price_source"},
		),

		bestProfitPerHour: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: engineSubsystem,
				Name:      "best_profit_per_hour",
				Help:      "Profit per hour of the top-ranked suggestion in the last run",
			},
			[]string{"price_source"},
		),
	}
}

// Register registers all suggestion metrics with the Prometheus registry
func (c *SuggestionMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	for _, metric := range []prometheus.Collector{
		c.runsTotal,
		c.runDuration,
		c.returned,
		c.bestProfitPerHour,
	} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordSuggestionRun records one engine run. Gauges only move on success.
func (c *SuggestionMetricsCollector) RecordSuggestionRun(
	priceSource string,
	duration float64,
	returned int,
	bestProfitPerHour float64,
	err error,
) {
	c.runsTotal.WithLabelValues(priceSource, statusLabel(err)).Inc()
	c.runDuration.WithLabelValues(priceSource).Observe(duration)
	if err != nil {
		return
	}
	c.returned.WithLabelValues(priceSource).Set(float64(returned))
	c.bestProfitPerHour.WithLabelValues(priceSource).Set(bestProfitPerHour)
}

// RunsTotal exposes the run counter for inspection
func (c *SuggestionMetricsCollector) RunsTotal() *prometheus.CounterVec {
	return c.runsTotal
}
