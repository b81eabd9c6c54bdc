package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/app"
	alertCommands "github.com/andrescamacho/geflip-go/internal/application/alert/commands"
	alertQueries "github.com/andrescamacho/geflip-go/internal/application/alert/queries"
	ledgerCommands "github.com/andrescamacho/geflip-go/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/geflip-go/internal/application/ledger/queries"
	limitsCommands "github.com/andrescamacho/geflip-go/internal/application/limits/commands"
	limitsQueries "github.com/andrescamacho/geflip-go/internal/application/limits/queries"
	tradingQueries "github.com/andrescamacho/geflip-go/internal/application/trading/queries"
	watchCommands "github.com/andrescamacho/geflip-go/internal/application/watch/commands"
	watchQueries "github.com/andrescamacho/geflip-go/internal/application/watch/queries"
	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

const nowUnix = helpers.TestNowUnix

func newApp(t *testing.T) (*app.App, *helpers.FakePriceFeed) {
	return helpers.NewTestApp(t)
}

func TestApp_SuggestUsesConfiguredFilters(t *testing.T) {
	a, _ := newApp(t)

	resp, err := a.Mediator.Send(context.Background(), &tradingQueries.GenerateSuggestionsQuery{Budget: 1_000_000})

	require.NoError(t, err)
	out := resp.(*tradingQueries.GenerateSuggestionsResponse)
	require.Len(t, out.Suggestions, 2)
	// runite earns more per hour: 70 x 259 over 0.0175 h
	assert.Equal(t, 2363, out.Suggestions[0].ItemID)
	cannonball := out.Suggestions[1]
	assert.Equal(t, 2, cannonball.ItemID)
	assert.Equal(t, int64(1015), cannonball.BuyPrice, "aggressiveness 0.3 shifts the buy up by 15")
	assert.Equal(t, int64(1185), cannonball.SellPrice)
	assert.Equal(t, int64(14_700), cannonball.TotalProfit)
	assert.Equal(t, "latest", out.PriceSource)
	assert.Equal(t, "local", out.LimitSource)
	assert.Equal(t, 2, out.Scanned)
}

func TestApp_RecordedBuysReduceQuantity(t *testing.T) {
	// Arrange
	ctx := context.Background()
	a, _ := newApp(t)

	// Act
	_, err := a.Mediator.Send(ctx, &limitsCommands.RecordPurchaseCommand{ItemID: 2, Quantity: 60, Kind: "buy"})
	require.NoError(t, err)
	_, err = a.Mediator.Send(ctx, &limitsCommands.RecordPurchaseCommand{ItemID: 2, Quantity: 500, Kind: "sell"})
	require.NoError(t, err)

	report, err := a.Mediator.Send(ctx, &limitsQueries.GetRemainingLimitsQuery{})
	require.NoError(t, err)
	suggest, err := a.Mediator.Send(ctx, &tradingQueries.GenerateSuggestionsQuery{Budget: 1_000_000, ItemIDs: []int{2}})
	require.NoError(t, err)

	// Assert
	r := report.(*limitsQueries.GetRemainingLimitsResponse)
	assert.Equal(t, "local", r.Source)
	assert.Equal(t, limits.DefaultWindow, r.Window)
	require.Len(t, r.Items, 1)
	assert.Equal(t, limitsQueries.RemainingLimitDTO{ItemID: 2, Name: "Cannonball", BuyLimit: 100, Remaining: 40, Used: 60}, r.Items[0])

	s := suggest.(*tradingQueries.GenerateSuggestionsResponse)
	require.Len(t, s.Suggestions, 1)
	assert.Equal(t, int64(40), s.Suggestions[0].Quantity)
}

func TestApp_RecordRejectsUnknownKind(t *testing.T) {
	a, _ := newApp(t)

	_, err := a.Mediator.Send(context.Background(), &limitsCommands.RecordPurchaseCommand{ItemID: 2, Quantity: 1, Kind: "gift"})

	assert.ErrorIs(t, err, limits.ErrInvalidEventKind)
}

func TestApp_ItemQueries(t *testing.T) {
	ctx := context.Background()
	a, feed := newApp(t)
	feed.Timeseries[2] = []market.TimeseriesPoint{{Timestamp: nowUnix - 300, AvgHighPrice: market.Int64Ptr(1190)}}

	search, err := a.Mediator.Send(ctx, &tradingQueries.SearchItemsQuery{Query: "BAR"})
	require.NoError(t, err)
	item, err := a.Mediator.Send(ctx, &tradingQueries.GetItemQuery{ItemID: 2})
	require.NoError(t, err)
	series, err := a.Mediator.Send(ctx, &tradingQueries.GetTimeseriesQuery{ItemID: 2})
	require.NoError(t, err)
	_, missingErr := a.Mediator.Send(ctx, &tradingQueries.GetItemQuery{ItemID: 999})

	found := search.(*tradingQueries.SearchItemsResponse)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Runite bar", found.Items[0].Name)

	detail := item.(*tradingQueries.GetItemResponse).Item
	assert.Equal(t, int64(1200), *detail.High)
	assert.Equal(t, int64(10_000), detail.LowPriceVolume)

	ts := series.(*tradingQueries.GetTimeseriesResponse)
	assert.Equal(t, "5m", ts.Timestep)
	assert.Len(t, ts.Points, 1)

	var notFound *shared.ItemNotFoundError
	assert.ErrorAs(t, missingErr, &notFound)
}

func TestApp_WatchlistRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, _ := newApp(t)

	_, err := a.Mediator.Send(ctx, &watchCommands.AddWatchCommand{ItemIDs: []int{2363, 2, 2363}})
	require.NoError(t, err)
	removed, err := a.Mediator.Send(ctx, &watchCommands.RemoveWatchCommand{ItemID: 2})
	require.NoError(t, err)
	listed, err := a.Mediator.Send(ctx, &watchQueries.ListWatchlistQuery{})
	require.NoError(t, err)

	assert.True(t, removed.(*watchCommands.RemoveWatchResponse).Removed)
	items := listed.(*watchQueries.ListWatchlistResponse).Items
	require.Len(t, items, 1)
	assert.Equal(t, "Runite bar", items[0].Name)
}

func TestApp_AlertLifecycle(t *testing.T) {
	ctx := context.Background()
	a, _ := newApp(t)

	created, err := a.Mediator.Send(ctx, &alertCommands.CreateAlertCommand{ItemID: 2, Direction: "below", TargetPrice: 1300})
	require.NoError(t, err)
	_, err = a.Mediator.Send(ctx, &alertCommands.CreateAlertCommand{ItemID: 2, Direction: "sideways", TargetPrice: 1})
	assert.Error(t, err)

	checked, err := a.Mediator.Send(ctx, &alertCommands.CheckAlertsCommand{})
	require.NoError(t, err)
	active, err := a.Mediator.Send(ctx, &alertQueries.ListAlertsQuery{ActiveOnly: true})
	require.NoError(t, err)

	id := created.(*alertCommands.CreateAlertResponse).Alert.ID
	triggered := checked.(*alertCommands.CheckAlertsResponse).Triggered
	require.Len(t, triggered, 1)
	assert.Equal(t, id, triggered[0].ID)
	assert.Equal(t, int64(1200), *triggered[0].TriggeredPrice)
	assert.Empty(t, active.(*alertQueries.ListAlertsResponse).Alerts)

	_, err = a.Mediator.Send(ctx, &alertCommands.DeleteAlertCommand{AlertID: id})
	require.NoError(t, err)
	_, err = a.Mediator.Send(ctx, &alertCommands.DeleteAlertCommand{AlertID: id})
	assert.Error(t, err)
}

func TestApp_FlipLog(t *testing.T) {
	ctx := context.Background()
	a, _ := newApp(t)
	bought := time.Unix(nowUnix-7200, 0).UTC()

	logged, err := a.Mediator.Send(ctx, &ledgerCommands.LogFlipCommand{
		ItemID: 2, Quantity: 100, BuyPrice: 1000, SellPrice: 1200, BoughtAt: &bought,
	})
	require.NoError(t, err)
	_, err = a.Mediator.Send(ctx, &ledgerCommands.LogFlipCommand{ItemID: 2363, Quantity: 10, BuyPrice: 12_000, SellPrice: 12_100})
	require.NoError(t, err)

	listed, err := a.Mediator.Send(ctx, &ledgerQueries.ListFlipsQuery{})
	require.NoError(t, err)
	summary, err := a.Mediator.Send(ctx, &ledgerQueries.GetFlipSummaryQuery{})
	require.NoError(t, err)

	flip := logged.(*ledgerCommands.LogFlipResponse).Flip
	assert.Equal(t, "Cannonball", flip.ItemName)
	assert.Equal(t, int64(17_600), flip.Profit)
	assert.Len(t, listed.(*ledgerQueries.ListFlipsResponse).Flips, 2)

	// runite: 10*12100 - 10*242 - 10*12000 = -1420
	s := summary.(*ledgerQueries.GetFlipSummaryResponse)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, int64(220_000), s.TotalCost)
	assert.Equal(t, int64(16_180), s.TotalProfit)
	assert.Equal(t, "beginning to now", s.Period)
}

func TestFiltersFromConfig(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)

	f, err := app.FiltersFromConfig(cfg.Suggest)
	require.NoError(t, err)
	assert.Equal(t, trading.DefaultFilters(), f)

	w, err := app.WatchFilters(f, cfg.Watch)
	require.NoError(t, err)
	assert.Equal(t, int64(300), w.MinHourlyVolume)
	assert.Equal(t, trading.FreshnessAny, w.FreshPolicy)

	cfg.Suggest.PriceSource = "5m"
	_, err = app.FiltersFromConfig(cfg.Suggest)
	assert.ErrorIs(t, err, trading.ErrUnknownPriceSource)
}
