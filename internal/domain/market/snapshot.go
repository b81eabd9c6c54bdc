package market

import "sort"

// LatestPrice is the instantaneous record for an item: the most recent
// instant-buy (High) and instant-sell (Low) prices and when each was observed.
// Timestamps are unix seconds. Any field may be absent.
type LatestPrice struct {
	High     *int64 `json:"high"`
	HighTime *int64 `json:"highTime"`
	Low      *int64 `json:"low"`
	LowTime  *int64 `json:"lowTime"`
}

// WindowedPrice is the trailing-window aggregate for an item
type WindowedPrice struct {
	AvgHighPrice    *int64 `json:"avgHighPrice"`
	HighPriceVolume int64  `json:"highPriceVolume"`
	AvgLowPrice     *int64 `json:"avgLowPrice"`
	LowPriceVolume  int64  `json:"lowPriceVolume"`
}

// Snapshot groups the two price feeds supplied for a single invocation.
// Snapshots are point-in-time data and are never mutated by consumers.
type Snapshot struct {
	Latest   map[int]LatestPrice
	Windowed map[int]WindowedPrice
}

// LatestFor returns the latest record for an item
func (s Snapshot) LatestFor(id int) (LatestPrice, bool) {
	lp, ok := s.Latest[id]
	return lp, ok
}

// WindowedFor returns the windowed record for an item
func (s Snapshot) WindowedFor(id int) (WindowedPrice, bool) {
	wp, ok := s.Windowed[id]
	return wp, ok
}

// ItemIDs returns the union of item ids present in either feed, ascending
func (s Snapshot) ItemIDs() []int {
	seen := make(map[int]struct{}, len(s.Latest)+len(s.Windowed))
	for id := range s.Latest {
		seen[id] = struct{}{}
	}
	for id := range s.Windowed {
		seen[id] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ValueOrZero dereferences an optional price, treating nil as zero
func ValueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}

// TimeseriesPoint is a single bucket of the per-item price history feed
type TimeseriesPoint struct {
	Timestamp       int64  `json:"timestamp"`
	AvgHighPrice    *int64 `json:"avgHighPrice"`
	AvgLowPrice     *int64 `json:"avgLowPrice"`
	HighPriceVolume int64  `json:"highPriceVolume"`
	LowPriceVolume  int64  `json:"lowPriceVolume"`
}
