package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tradingsvc "github.com/andrescamacho/geflip-go/internal/application/trading/services"
	"github.com/andrescamacho/geflip-go/internal/application/watch/services"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
	"github.com/andrescamacho/geflip-go/internal/domain/watch"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

const nowUnix = 1_700_000_000

func flatFilters() trading.Filters {
	f := trading.DefaultFilters()
	f.Aggressiveness = 0
	f.FreshPolicy = trading.FreshnessAny
	return f
}

func seededFeed() *helpers.FakePriceFeed {
	feed := helpers.NewFakePriceFeed()
	feed.AddFlippable(2, "Cannonball", 100, 1000, 1200, 10_000, nowUnix-60)
	feed.AddFlippable(4, "Rune bar", 100, 10_000, 11_000, 10_000, nowUnix-60)
	return feed
}

func newSession(feed *helpers.FakePriceFeed, opts services.SessionOptions) *services.Session {
	svc := tradingsvc.NewSuggestionService(feed, nil, nil, 0, 0, shared.NewMockClockAtUnix(nowUnix))
	return services.NewSession(svc, opts)
}

func rowIDs(rows []services.Row) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.Suggestion.ItemID()
	}
	return ids
}

func TestSession_StartSelectsTopItems(t *testing.T) {
	session := newSession(seededFeed(), services.SessionOptions{
		Budget: 10_000_000, Top: 1, Filters: flatFilters(),
	})

	tick, err := session.Start(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{4}, rowIDs(tick.Rows))
	assert.Equal(t, []int{4}, session.WatchedIDs())
	assert.Equal(t, watch.TrendNew, tick.Rows[0].BuyPriceChange().Trend)
}

func TestSession_StartWithNothingToWatch(t *testing.T) {
	session := newSession(helpers.NewFakePriceFeed(), services.SessionOptions{Budget: 10_000_000, Filters: flatFilters()})

	_, err := session.Start(context.Background())

	assert.ErrorIs(t, err, services.ErrNoInitialSuggestions)
}

func TestSession_RefreshAutoAddsUpToMaxWatch(t *testing.T) {
	// Arrange
	feed := seededFeed()
	feed.AddFlippable(5, "Adamant bar", 100, 2_000, 2_400, 10_000, nowUnix-60)
	session := newSession(feed, services.SessionOptions{
		Budget: 10_000_000, Top: 1, Filters: flatFilters(),
		AutoAdd: true, AutoAddTop: 50, MaxWatch: 2,
	})
	_, err := session.Start(context.Background())
	require.NoError(t, err)

	// Act
	tick, err := session.Refresh(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int{5}, tick.Added, "best unwatched candidate is added first")
	assert.Equal(t, []int{4, 5}, session.WatchedIDs())
	assert.Equal(t, []int{4, 5}, rowIDs(tick.Rows))
	assert.Equal(t, watch.TrendFlat, tick.Rows[0].ProfitPerHourChange().Trend)
	assert.Equal(t, watch.TrendNew, tick.Rows[1].ProfitPerHourChange().Trend)
}

func TestSession_RefreshReportsPriceMoves(t *testing.T) {
	// Arrange
	feed := seededFeed()
	session := newSession(feed, services.SessionOptions{Budget: 10_000_000, Top: 5, Filters: flatFilters()})
	_, err := session.Start(context.Background())
	require.NoError(t, err)

	feed.SetLatest(4, 11_000, nowUnix-30, 9_900, nowUnix-30)

	// Act
	tick, err := session.Refresh(context.Background())

	// Assert
	require.NoError(t, err)
	require.Equal(t, 4, tick.Rows[0].Suggestion.ItemID())
	buy := tick.Rows[0].BuyPriceChange()
	assert.Equal(t, watch.TrendDown, buy.Trend)
	assert.True(t, buy.Good, "cheaper buy is favourable")
	assert.Equal(t, -100.0, buy.Delta)
	assert.Equal(t, watch.TrendUp, tick.Rows[0].UnitProfitChange().Trend)
	assert.Equal(t, watch.TrendFlat, tick.Rows[1].SellPriceChange().Trend)
}

func TestSession_UnqualifiedItemKeepsPreviousReading(t *testing.T) {
	feed := seededFeed()
	session := newSession(feed, services.SessionOptions{Budget: 10_000_000, Top: 5, Filters: flatFilters()})
	_, err := session.Start(context.Background())
	require.NoError(t, err)

	delete(feed.Latest, 2)
	tick, err := session.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{4, 2}, rowIDs(tick.Rows))
	assert.Same(t, tick.Rows[1].Previous, tick.Rows[1].Suggestion)
}

func TestSession_TickCarriesGPFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"coins": 12500000}`), 0o600))
	session := newSession(seededFeed(), services.SessionOptions{Budget: 10_000_000, Filters: flatFilters(), GPFile: path})

	tick, err := session.Start(context.Background())

	require.NoError(t, err)
	require.NotNil(t, tick.GP)
	assert.Equal(t, int64(12_500_000), *tick.GP)
}

func TestReadGPFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	tests := []struct {
		name string
		path string
		want *int64
	}{
		{"empty path", "", nil},
		{"missing file", filepath.Join(dir, "nope.json"), nil},
		{"invalid json", write("bad.json", "{"), nil},
		{"first key wins", write("both.json", `{"gp": 5, "gp_available": 7}`), ptr(7)},
		{"negative skipped", write("neg.json", `{"gp_available": -1, "cash": 9}`), ptr(9)},
		{"non-numeric skipped", write("str.json", `{"gp": "lots"}`), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.ReadGPFile(tt.path))
		})
	}
}

func ptr(v int64) *int64 { return &v }
