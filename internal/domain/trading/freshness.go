package trading

import (
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/market"
)

// IsFresh applies the freshness filter to an item's latest record.
//
// A non-positive threshold disables the check. A missing record, or one with
// neither timestamp, is stale.
func IsFresh(latest market.LatestPrice, hasLatest bool, freshMinutes float64, policy FreshnessPolicy, now time.Time) bool {
	if freshMinutes <= 0 {
		return true
	}
	if !hasLatest {
		return false
	}
	if latest.HighTime == nil && latest.LowTime == nil {
		return false
	}

	limit := freshMinutes * 60
	recent := func(ts *int64) bool {
		return ts != nil && float64(now.Unix()-*ts) <= limit
	}

	highOK := recent(latest.HighTime)
	lowOK := recent(latest.LowTime)
	if policy == FreshnessAny {
		return highOK || lowOK
	}
	return highOK && lowOK
}
