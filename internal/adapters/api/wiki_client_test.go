package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/adapters/api"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) (*api.WikiClient, *shared.MockClock) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	clock := shared.NewMockClockAtUnix(1_700_000_000)
	return api.NewWikiClientWithConfig(server.URL, "geflip-test/1.0", maxRetries, time.Second, clock), clock
}

func TestWikiClient_FetchCatalogSkipsMalformedEntries(t *testing.T) {
	// Arrange
	var userAgent string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "/mapping", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 2, "name": "Cannonball", "limit": 11000, "members": true},
			{"item": 560, "name": "Death rune"},
			{"name": "no id"},
			{"id": "bogus"},
			{"id": 4151, "name": "Abyssal whip", "limit": 70, "members": true}
		]`))
	}, 0)

	// Act
	catalog, err := client.FetchCatalog(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "geflip-test/1.0", userAgent)
	require.Len(t, catalog, 3)
	assert.Equal(t, "Cannonball", catalog[2].Name)
	require.NotNil(t, catalog[2].BuyLimit)
	assert.Equal(t, int64(11000), *catalog[2].BuyLimit)
	assert.False(t, catalog[560].HasBuyLimit())
	assert.Equal(t, int64(70), *catalog[4151].BuyLimit)
}

func TestWikiClient_FetchLatestAndWindowed(t *testing.T) {
	// Arrange
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/latest":
			_, _ = w.Write([]byte(`{"data": {
				"2": {"high": 200, "highTime": 1700000000, "low": 190, "lowTime": 1699999990},
				"560": {"high": null, "highTime": null, "low": 180, "lowTime": 1699999000},
				"abc": {"high": 1},
				"4151": {"high": "broken"}
			}}`))
		case "/1h":
			_, _ = w.Write([]byte(`{"data": {
				"2": {"avgHighPrice": 201, "highPriceVolume": 5000, "avgLowPrice": 195, "lowPriceVolume": 4000},
				"560": {"avgHighPrice": null, "highPriceVolume": 0, "avgLowPrice": 170, "lowPriceVolume": 12}
			}, "timestamp": 1699999200}`))
		default:
			http.NotFound(w, r)
		}
	}, 0)
	ctx := context.Background()

	// Act
	latest, err := client.FetchLatest(ctx)
	require.NoError(t, err)
	windowed, err := client.FetchWindowed(ctx, market.Window1h)
	require.NoError(t, err)

	// Assert
	require.Len(t, latest, 2)
	assert.Equal(t, int64(200), *latest[2].High)
	assert.Nil(t, latest[560].High)
	assert.Equal(t, int64(180), *latest[560].Low)

	require.Len(t, windowed, 2)
	assert.Equal(t, int64(5000), windowed[2].HighPriceVolume)
	assert.Nil(t, windowed[560].AvgHighPrice)
}

func TestWikiClient_FetchWindowedRejectsUnknownWindow(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, 0)

	_, err := client.FetchWindowed(context.Background(), "24h")

	assert.ErrorIs(t, err, market.ErrUnsupportedWindow)
}

func TestWikiClient_FetchTimeseries(t *testing.T) {
	// Arrange
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/timeseries", r.URL.Path)
		assert.Equal(t, "4151", r.URL.Query().Get("id"))
		assert.Equal(t, "5m", r.URL.Query().Get("timestep"))
		_, _ = w.Write([]byte(`{"data": [
			{"timestamp": 1700000000, "avgHighPrice": 1500000, "avgLowPrice": 1490000, "highPriceVolume": 10, "lowPriceVolume": 12},
			{"timestamp": 1700000300, "avgHighPrice": null, "avgLowPrice": 1495000, "highPriceVolume": 0, "lowPriceVolume": 3}
		]}`))
	}, 0)

	// Act
	points, err := client.FetchTimeseries(context.Background(), 4151, "5m")

	// Assert
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, int64(1700000300), points[1].Timestamp)
	assert.Nil(t, points[1].AvgHighPrice)

	_, err = client.FetchTimeseries(context.Background(), 4151, "2h")
	assert.ErrorIs(t, err, api.ErrUnsupportedTimestep)
}

func TestWikiClient_RetriesServerErrorsWithBackoff(t *testing.T) {
	// Arrange
	var calls int32
	client, clock := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data": {}}`))
	}, 3)
	start := clock.Now()

	// Act
	latest, err := client.FetchLatest(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, latest)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	// 1s + 2s base delays, each with up to 25% jitter
	elapsed := clock.Now().Sub(start)
	assert.GreaterOrEqual(t, elapsed, 3*time.Second)
	assert.LessOrEqual(t, elapsed, 3750*time.Millisecond)
}

func TestWikiClient_HonoursRetryAfter(t *testing.T) {
	// Arrange
	var calls int32
	client, clock := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}, 2)
	start := clock.Now()

	// Act
	_, err := client.FetchCatalog(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, clock.Now().Sub(start))
}

func TestWikiClient_ClientErrorsAreNotRetried(t *testing.T) {
	// Arrange
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("generic user agents are blocked"))
	}, 3)

	// Act
	_, err := client.FetchLatest(context.Background())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrFeedUnavailable)
	var statusErr *api.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, api.CircuitClosed, client.BreakerState())
}

func TestWikiClient_OpensCircuitAfterRepeatedFailures(t *testing.T) {
	// Arrange
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}, 0)
	ctx := context.Background()

	// Act
	for i := 0; i < 5; i++ {
		_, err := client.FetchLatest(ctx)
		require.Error(t, err)
	}
	_, err := client.FetchLatest(ctx)

	// Assert
	assert.ErrorIs(t, err, api.ErrCircuitOpen)
	assert.ErrorIs(t, err, market.ErrFeedUnavailable)
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
	assert.Equal(t, api.CircuitOpen, client.BreakerState())
}
