package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/adapters/cache"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

func TestMemoryStore_ExpiresEntries(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := shared.NewMockClockAtUnix(1_700_000_000)
	store := cache.NewMemoryStore(clock)
	require.NoError(t, store.Set(ctx, "latest", []byte("v1"), 30*time.Second))
	require.NoError(t, store.Set(ctx, "forever", []byte("v2"), 0))

	// Act
	clock.Advance(29 * time.Second)
	_, freshOK, _ := store.Get(ctx, "latest")
	clock.Advance(time.Second)
	_, expiredOK, _ := store.Get(ctx, "latest")
	forever, foreverOK, _ := store.Get(ctx, "forever")

	// Assert
	assert.True(t, freshOK)
	assert.False(t, expiredOK)
	assert.True(t, foreverOK)
	assert.Equal(t, []byte("v2"), forever)
	assert.Equal(t, 1, store.Len())
}

func TestCachingPriceFeed_ServesFromCacheUntilTTL(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := shared.NewMockClockAtUnix(1_700_000_000)
	inner := helpers.NewFakePriceFeed()
	inner.AddItem(2, "Cannonball", market.Int64Ptr(11000))
	inner.SetLatest(2, 200, 1_700_000_000, 190, 1_700_000_000)
	inner.SetWindowed(market.Window1h, 2, 201, 5000, 195, 4000)
	feed := cache.NewCachingPriceFeed(inner, cache.NewMemoryStore(clock), time.Hour, 30*time.Second)

	// Act
	for i := 0; i < 3; i++ {
		_, err := feed.FetchCatalog(ctx)
		require.NoError(t, err)
		_, err = feed.FetchLatest(ctx)
		require.NoError(t, err)
		_, err = feed.FetchWindowed(ctx, market.Window1h)
		require.NoError(t, err)
	}
	clock.Advance(31 * time.Second)
	latest, err := feed.FetchLatest(ctx)
	require.NoError(t, err)
	catalog, err := feed.FetchCatalog(ctx)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, inner.Calls("FetchCatalog"))
	assert.Equal(t, 2, inner.Calls("FetchLatest"))
	assert.Equal(t, 1, inner.Calls("FetchWindowed"))
	assert.Equal(t, int64(200), *latest[2].High)
	assert.Equal(t, "Cannonball", catalog[2].Name)
	assert.Equal(t, int64(11000), *catalog[2].BuyLimit)
}

func TestCachingPriceFeed_ErrorsAreNotCached(t *testing.T) {
	// Arrange
	ctx := context.Background()
	inner := helpers.NewFakePriceFeed()
	inner.Err = market.ErrFeedUnavailable
	feed := cache.NewCachingPriceFeed(inner, cache.NewMemoryStore(nil), 0, 0)

	// Act
	_, err := feed.FetchLatest(ctx)
	inner.Err = nil
	_, err2 := feed.FetchLatest(ctx)

	// Assert
	assert.ErrorIs(t, err, market.ErrFeedUnavailable)
	assert.NoError(t, err2)
	assert.Equal(t, 2, inner.Calls("FetchLatest"))
}

func TestCachingPriceFeed_NilStoreBypasses(t *testing.T) {
	inner := helpers.NewFakePriceFeed()
	feed := cache.NewCachingPriceFeed(inner, nil, time.Hour, time.Minute)

	_, _ = feed.FetchLatest(context.Background())
	_, _ = feed.FetchLatest(context.Background())

	assert.Equal(t, 2, inner.Calls("FetchLatest"))
	assert.NoError(t, feed.Invalidate(context.Background()))
}

func TestCachingPriceFeed_RedisMissThenSet(t *testing.T) {
	// Arrange
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := helpers.NewFakePriceFeed()
	inner.SetLatest(2, 200, 1_700_000_000, 190, 1_700_000_000)
	expected, err := json.Marshal(inner.Latest)
	require.NoError(t, err)

	mock.ExpectGet("geflip:latest").RedisNil()
	mock.ExpectSet("geflip:latest", expected, 30*time.Second).SetVal("OK")

	feed := cache.NewCachingPriceFeed(inner, cache.NewRedisStore(rdb, ""), time.Hour, 30*time.Second)

	// Act
	latest, err := feed.FetchLatest(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(190), *latest[2].Low)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingPriceFeed_RedisHitSkipsFeed(t *testing.T) {
	// Arrange
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached := map[int]market.WindowedPrice{
		4151: {AvgHighPrice: market.Int64Ptr(1_500_000), HighPriceVolume: 40, AvgLowPrice: market.Int64Ptr(1_480_000), LowPriceVolume: 38},
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	mock.ExpectGet("flips:windowed:1h").SetVal(string(payload))

	inner := helpers.NewFakePriceFeed()
	feed := cache.NewCachingPriceFeed(inner, cache.NewRedisStore(rdb, "flips"), time.Hour, time.Minute)

	// Act
	windowed, err := feed.FetchWindowed(context.Background(), market.Window1h)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cached, windowed)
	assert.Equal(t, 0, inner.Calls("FetchWindowed"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingPriceFeed_CorruptedRedisEntryIsReplaced(t *testing.T) {
	// Arrange
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := helpers.NewFakePriceFeed()
	expected, err := json.Marshal(inner.Latest)
	require.NoError(t, err)

	mock.ExpectGet("geflip:latest").SetVal("{not json")
	mock.ExpectDel("geflip:latest").SetVal(1)
	mock.ExpectSet("geflip:latest", expected, 30*time.Second).SetVal("OK")

	feed := cache.NewCachingPriceFeed(inner, cache.NewRedisStore(rdb, "geflip"), time.Hour, 30*time.Second)

	// Act
	_, err = feed.FetchLatest(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, inner.Calls("FetchLatest"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingPriceFeed_RedisFailureFallsThrough(t *testing.T) {
	// Arrange
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()
	mock.ExpectGet("geflip:catalog").SetErr(errors.New("connection refused"))
	mock.ExpectSet("geflip:catalog", []byte("{}"), time.Hour).SetErr(errors.New("connection refused"))

	inner := helpers.NewFakePriceFeed()
	feed := cache.NewCachingPriceFeed(inner, cache.NewRedisStore(rdb, ""), time.Hour, time.Minute)

	// Act
	catalog, err := feed.FetchCatalog(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, catalog)
	assert.Equal(t, 1, inner.Calls("FetchCatalog"))
}

func TestNewStore_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	memory, err := cache.NewStore(ctx, config.CacheConfig{Backend: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryStore{}, memory)

	none, err := cache.NewStore(ctx, config.CacheConfig{Backend: "none"}, nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = cache.NewStore(ctx, config.CacheConfig{Backend: "memcached"}, nil)
	assert.Error(t, err)
}
