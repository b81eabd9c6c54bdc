package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/geflip-go/internal/domain/market"
)

// FakePriceFeed is a test double for market.PriceFeed, market.TimeseriesProvider
// and market.GuidePriceProvider. Each method counts its calls.
type FakePriceFeed struct {
	mu sync.Mutex

	Catalog    market.Catalog
	Latest     map[int]market.LatestPrice
	Windowed   map[string]map[int]market.WindowedPrice
	Timeseries map[int][]market.TimeseriesPoint
	Guide      map[int]int64

	// Err, when set, is returned by every fetch
	Err error
	// GuideErr, when set, is returned by GuidePrice
	GuideErr error

	calls map[string]int
}

// NewFakePriceFeed creates an empty feed
func NewFakePriceFeed() *FakePriceFeed {
	return &FakePriceFeed{
		Catalog:    market.Catalog{},
		Latest:     map[int]market.LatestPrice{},
		Windowed:   map[string]map[int]market.WindowedPrice{},
		Timeseries: map[int][]market.TimeseriesPoint{},
		Guide:      map[int]int64{},
		calls:      map[string]int{},
	}
}

// AddItem registers an item with an optional buy limit (nil for unknown)
func (f *FakePriceFeed) AddItem(id int, name string, limit *int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Catalog[id] = market.Item{ID: id, Name: name, BuyLimit: limit}
}

// SetLatest sets the latest record for an item
func (f *FakePriceFeed) SetLatest(id int, high, highTime, low, lowTime int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Latest[id] = market.LatestPrice{
		High: market.Int64Ptr(high), HighTime: market.Int64Ptr(highTime),
		Low: market.Int64Ptr(low), LowTime: market.Int64Ptr(lowTime),
	}
}

// SetWindowed sets the aggregate record for an item in the given window
func (f *FakePriceFeed) SetWindowed(window string, id int, avgHigh, highVol, avgLow, lowVol int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Windowed[window] == nil {
		f.Windowed[window] = map[int]market.WindowedPrice{}
	}
	f.Windowed[window][id] = market.WindowedPrice{
		AvgHighPrice: market.Int64Ptr(avgHigh), HighPriceVolume: highVol,
		AvgLowPrice: market.Int64Ptr(avgLow), LowPriceVolume: lowVol,
	}
}

// Calls returns how many times the named method ran
func (f *FakePriceFeed) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakePriceFeed) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[method]++
	return f.Err
}

func (f *FakePriceFeed) FetchCatalog(ctx context.Context) (market.Catalog, error) {
	if err := f.record("FetchCatalog"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(market.Catalog, len(f.Catalog))
	for id, item := range f.Catalog {
		out[id] = item
	}
	return out, nil
}

func (f *FakePriceFeed) FetchLatest(ctx context.Context) (map[int]market.LatestPrice, error) {
	if err := f.record("FetchLatest"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int]market.LatestPrice, len(f.Latest))
	for id, lp := range f.Latest {
		out[id] = lp
	}
	return out, nil
}

func (f *FakePriceFeed) FetchWindowed(ctx context.Context, window string) (map[int]market.WindowedPrice, error) {
	if err := f.record("FetchWindowed"); err != nil {
		return nil, err
	}
	if window != market.Window1h && window != market.Window5m {
		return nil, fmt.Errorf("%w: %q", market.ErrUnsupportedWindow, window)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int]market.WindowedPrice, len(f.Windowed[window]))
	for id, wp := range f.Windowed[window] {
		out[id] = wp
	}
	return out, nil
}

func (f *FakePriceFeed) FetchTimeseries(ctx context.Context, itemID int, timestep string) ([]market.TimeseriesPoint, error) {
	if err := f.record("FetchTimeseries"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]market.TimeseriesPoint(nil), f.Timeseries[itemID]...), nil
}

func (f *FakePriceFeed) GuidePrice(ctx context.Context, itemID int) (*int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls["GuidePrice"]++
	if f.GuideErr != nil {
		return nil, f.GuideErr
	}
	price, ok := f.Guide[itemID]
	if !ok {
		return nil, nil
	}
	return &price, nil
}

// AddFlippable seeds an item whose latest and 1h records agree: instant-sell at
// buy, instant-buy at sell, volume trades per hour on each side, both
// timestamps at unix second at.
func (f *FakePriceFeed) AddFlippable(id int, name string, limit, buy, sell, volume, at int64) {
	f.AddItem(id, name, market.Int64Ptr(limit))
	f.SetLatest(id, sell, at, buy, at)
	f.SetWindowed(market.Window1h, id, sell, volume, buy, volume)
}
