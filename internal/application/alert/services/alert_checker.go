package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/andrescamacho/geflip-go/internal/adapters/metrics"
	"github.com/andrescamacho/geflip-go/internal/domain/alert"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// DefaultCheckInterval is how often the daemon evaluates active alerts
const DefaultCheckInterval = 2 * time.Minute

// CheckResult summarises one pass of the checker
type CheckResult struct {
	Checked   int
	Triggered []*alert.PriceAlert
}

// AlertChecker evaluates active alerts against the latest prices
type AlertChecker struct {
	repo  alert.AlertRepository
	feed  market.PriceFeed
	clock shared.Clock

	// OnTrigger, when set, is called for every alert that fires
	OnTrigger func(a *alert.PriceAlert)
}

// NewAlertChecker creates a checker
func NewAlertChecker(repo alert.AlertRepository, feed market.PriceFeed, clock shared.Clock) *AlertChecker {
	return &AlertChecker{
		repo:  repo,
		feed:  feed,
		clock: shared.OrRealClock(clock),
	}
}

// Check loads active alerts, fetches latest prices once and deactivates every
// alert whose target was crossed.
func (c *AlertChecker) Check(ctx context.Context) (*CheckResult, error) {
	active, err := c.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active alerts: %w", err)
	}
	result := &CheckResult{Checked: len(active)}
	if len(active) == 0 {
		metrics.RecordAlertCheck(0, nil)
		return result, nil
	}

	latest, err := c.feed.FetchLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest prices: %w", err)
	}

	now := c.clock.Now()
	byDirection := make(map[string]int)
	for _, a := range active {
		lp, ok := latest[a.ItemID()]
		if !ok || !a.Check(lp, now) {
			continue
		}
		if err := c.repo.Save(ctx, a); err != nil {
			return nil, fmt.Errorf("failed to save triggered alert %s: %w", a.ID(), err)
		}
		result.Triggered = append(result.Triggered, a)
		byDirection[a.Direction().String()]++

		slog.Info("price alert triggered",
			"alert_id", a.ID(),
			"item_id", a.ItemID(),
			"direction", a.Direction(),
			"target", a.TargetPrice(),
			"price", *a.TriggeredPrice(),
		)
		if c.OnTrigger != nil {
			c.OnTrigger(a)
		}
	}

	metrics.RecordAlertCheck(len(active)-len(result.Triggered), byDirection)
	return result, nil
}

// Run checks alerts on every tick until ctx is cancelled. Failures are logged
// and the loop continues.
func (c *AlertChecker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.Check(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("alert check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
