package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/andrescamacho/geflip-go/internal/adapters/metrics"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
)

const (
	defaultCatalogTTL = time.Hour
	defaultPricesTTL  = 30 * time.Second

	keyCatalog = "catalog"
	keyLatest  = "latest"
)

// CachingPriceFeed decorates a market.PriceFeed with a TTL cache.
// The catalog and the price snapshots have separate TTLs. Cache failures are
// logged and fall through to the inner feed.
type CachingPriceFeed struct {
	inner      market.PriceFeed
	store      Store
	catalogTTL time.Duration
	pricesTTL  time.Duration
}

// NewCachingPriceFeed wraps inner. A nil store bypasses caching; non-positive
// TTLs use one hour for the catalog and 30 seconds for prices.
func NewCachingPriceFeed(inner market.PriceFeed, store Store, catalogTTL, pricesTTL time.Duration) *CachingPriceFeed {
	if catalogTTL <= 0 {
		catalogTTL = defaultCatalogTTL
	}
	if pricesTTL <= 0 {
		pricesTTL = defaultPricesTTL
	}
	return &CachingPriceFeed{
		inner:      inner,
		store:      store,
		catalogTTL: catalogTTL,
		pricesTTL:  pricesTTL,
	}
}

func (f *CachingPriceFeed) FetchCatalog(ctx context.Context) (market.Catalog, error) {
	return readThrough(ctx, f, keyCatalog, f.catalogTTL, f.inner.FetchCatalog)
}

func (f *CachingPriceFeed) FetchLatest(ctx context.Context) (map[int]market.LatestPrice, error) {
	return readThrough(ctx, f, keyLatest, f.pricesTTL, f.inner.FetchLatest)
}

func (f *CachingPriceFeed) FetchWindowed(ctx context.Context, window string) (map[int]market.WindowedPrice, error) {
	return readThrough(ctx, f, "windowed:"+window, f.pricesTTL, func(ctx context.Context) (map[int]market.WindowedPrice, error) {
		return f.inner.FetchWindowed(ctx, window)
	})
}

// Invalidate drops the cached catalog and snapshots so the next call hits the feed
func (f *CachingPriceFeed) Invalidate(ctx context.Context) error {
	if f.store == nil {
		return nil
	}
	return f.store.Delete(ctx, keyCatalog, keyLatest, "windowed:"+market.Window1h, "windowed:"+market.Window5m)
}

func readThrough[T any](
	ctx context.Context,
	f *CachingPriceFeed,
	key string,
	ttl time.Duration,
	load func(context.Context) (T, error),
) (T, error) {
	if f.store == nil {
		return load(ctx)
	}

	if b, ok, err := f.store.Get(ctx, key); err != nil {
		slog.Debug("feed cache read failed", "key", key, "error", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(b, &cached); err == nil {
			metrics.RecordCacheLookup(key, true)
			return cached, nil
		}
		// corrupted entry
		_ = f.store.Delete(ctx, key)
	}
	metrics.RecordCacheLookup(key, false)

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if b, err := json.Marshal(value); err == nil {
		if err := f.store.Set(ctx, key, b, ttl); err != nil {
			slog.Debug("feed cache write failed", "key", key, "error", err)
		}
	}
	return value, nil
}
