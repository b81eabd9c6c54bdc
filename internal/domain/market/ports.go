package market

import "context"

// PriceFeed supplies catalog and price snapshots from an external source
type PriceFeed interface {
	// FetchCatalog returns the full item catalog with purchase caps
	FetchCatalog(ctx context.Context) (Catalog, error)

	// FetchLatest returns the instantaneous price record per item
	FetchLatest(ctx context.Context) (map[int]LatestPrice, error)

	// FetchWindowed returns the trailing-window aggregate for the given window ("5m", "1h")
	FetchWindowed(ctx context.Context, window string) (map[int]WindowedPrice, error)
}

// TimeseriesProvider returns historical buckets for a single item
type TimeseriesProvider interface {
	FetchTimeseries(ctx context.Context, itemID int, timestep string) ([]TimeseriesPoint, error)
}

// GuidePriceProvider looks up the official reference price for an item.
// A nil price with nil error means the price is unknown.
type GuidePriceProvider interface {
	GuidePrice(ctx context.Context, itemID int) (*int64, error)
}
