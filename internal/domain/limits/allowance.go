package limits

import (
	"context"
	"time"
)

// DefaultWindow is the trailing window purchase caps apply to
const DefaultWindow = 4 * time.Hour

// RetentionWindow bounds how long stored events are kept: twice the accounting window
const RetentionWindow = 2 * DefaultWindow

// Allowance maps item id to remaining purchasable quantity.
// Items without a known cap are absent and therefore unconstrained.
type Allowance map[int]int64

// For returns the remaining allowance for an item and whether it is constrained
func (a Allowance) For(itemID int) (int64, bool) {
	if a == nil {
		return 0, false
	}
	v, ok := a[itemID]
	return v, ok
}

// AllowanceSource computes remaining purchase allowance from a log of events.
// Implementations are interchangeable and are never merged.
type AllowanceSource interface {
	// Name identifies the source in logs and reports
	Name() string

	// Available reports whether the source has backing data to read from
	Available() bool

	// Remaining computes max(0, cap - buys within window) for every known cap
	Remaining(ctx context.Context, caps map[int]int64, now time.Time, window time.Duration) (Allowance, error)
}

// ComputeRemaining sums buy quantities with timestamp >= now-window per item and
// subtracts them from each known cap, clamping at zero.
func ComputeRemaining(events []PurchaseEvent, caps map[int]int64, now time.Time, window time.Duration) Allowance {
	if window <= 0 {
		window = DefaultWindow
	}
	cutoff := now.Add(-window).Unix()

	used := make(map[int]int64)
	for _, e := range events {
		if !e.IsBuy() {
			continue
		}
		if NormalizeTimestamp(e.Timestamp) < cutoff {
			continue
		}
		used[e.ItemID] += max(0, e.Quantity)
	}

	remaining := make(Allowance, len(caps))
	for itemID, limit := range caps {
		remaining[itemID] = max(0, limit-used[itemID])
	}
	return remaining
}

// PruneStale drops events older than the retention cutoff
func PruneStale(events []PurchaseEvent, now time.Time, retention time.Duration) []PurchaseEvent {
	cutoff := now.Add(-retention).Unix()
	kept := events[:0:0]
	for _, e := range events {
		if NormalizeTimestamp(e.Timestamp) >= cutoff {
			kept = append(kept, e)
		}
	}
	return kept
}

// SelectSource returns the first available source in priority order.
// A nil result means no tracking is available and no allowance should be applied.
func SelectSource(sources ...AllowanceSource) AllowanceSource {
	for _, src := range sources {
		if src != nil && src.Available() {
			return src
		}
	}
	return nil
}
