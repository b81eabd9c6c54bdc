package trading_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
)

var now = time.Unix(1_700_000_000, 0).UTC()

func ptr(v int64) *int64 { return &v }

func item(id int, name string, limit int64) market.Item {
	return market.Item{ID: id, Name: name, BuyLimit: ptr(limit)}
}

func freshLatest(low, high int64) market.LatestPrice {
	return market.LatestPrice{
		Low:      ptr(low),
		LowTime:  ptr(now.Unix()),
		High:     ptr(high),
		HighTime: ptr(now.Unix()),
	}
}

func volumes(low, high int64) market.WindowedPrice {
	return market.WindowedPrice{LowPriceVolume: low, HighPriceVolume: high}
}

func permissiveFilters() trading.Filters {
	return trading.Filters{
		MinUnitROI:          0,
		MinUnitProfit:       0,
		MinHourlyVolume:     0,
		MaxFillHours:        10,
		FreshMinutes:        10,
		FreshPolicy:         trading.FreshnessBoth,
		PriceSource:         trading.PriceSourceLatest,
		LatestMaxAgeMinutes: 20,
		Aggressiveness:      0,
		LiquidityFraction:   1.0,
	}
}

func TestGenerate_SingleItemScenario(t *testing.T) {
	// Arrange
	engine := trading.NewSuggestionEngine()
	req := trading.SuggestionRequest{
		Budget:  10_000,
		Catalog: market.Catalog{1: item(1, "Test item", 50)},
		Snapshot: market.Snapshot{
			Latest:   map[int]market.LatestPrice{1: freshLatest(100, 120)},
			Windowed: map[int]market.WindowedPrice{1: volumes(1000, 1000)},
		},
		Filters: permissiveFilters(),
		TopN:    10,
		Now:     now,
	}

	// Act
	results, err := engine.Generate(req)

	// Assert
	require.NoError(t, err)
	require.Len(t, results, 1)
	s := results[0]
	assert.Equal(t, 1, s.ItemID())
	assert.Equal(t, "Test item", s.ItemName())
	assert.Equal(t, int64(100), s.BuyPrice())
	assert.Equal(t, int64(120), s.SellPrice())
	assert.Equal(t, int64(50), s.Quantity())
	assert.Equal(t, int64(2), s.UnitTax())
	assert.Equal(t, int64(900), s.TotalProfit())
	assert.Equal(t, int64(18), s.UnitProfit())
	assert.InDelta(t, 0.18, s.UnitROI(), 1e-9)
	assert.InDelta(t, 0.05, s.BuyFillHours(), 1e-9)
	assert.InDelta(t, 0.1, s.ExpectedFillHours(), 1e-9)
	assert.InDelta(t, 9000, s.ProfitPerHour(), 1e-6)
	assert.Equal(t, int64(1000), s.HourlyVolume())
	assert.Nil(t, s.RemainingLimit())
	assert.Nil(t, s.GuidePrice())
}

func TestGenerate_RemainingAllowanceCapsQuantity(t *testing.T) {
	engine := trading.NewSuggestionEngine()
	req := trading.SuggestionRequest{
		Budget:    10_000,
		Catalog:   market.Catalog{1: item(1, "Test item", 50)},
		Snapshot:  market.Snapshot{Latest: map[int]market.LatestPrice{1: freshLatest(100, 120)}, Windowed: map[int]market.WindowedPrice{1: volumes(1000, 1000)}},
		Filters:   permissiveFilters(),
		Remaining: limits.Allowance{1: 20},
		TopN:      10,
		Now:       now,
	}

	results, err := engine.Generate(req)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(20), results[0].Quantity())
	require.NotNil(t, results[0].RemainingLimit())
	assert.Equal(t, int64(20), *results[0].RemainingLimit())
}

func TestGenerate_ExhaustedAllowanceExcludesItem(t *testing.T) {
	engine := trading.NewSuggestionEngine()
	req := trading.SuggestionRequest{
		Budget:    10_000,
		Catalog:   market.Catalog{1: item(1, "Test item", 50)},
		Snapshot:  market.Snapshot{Latest: map[int]market.LatestPrice{1: freshLatest(100, 120)}, Windowed: map[int]market.WindowedPrice{1: volumes(1000, 1000)}},
		Filters:   permissiveFilters(),
		Remaining: limits.Allowance{1: 0},
		TopN:      10,
		Now:       now,
	}

	results, err := engine.Generate(req)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGenerate_Exclusions(t *testing.T) {
	stale := freshLatest(100, 120)
	stale.HighTime = ptr(now.Add(-30 * time.Minute).Unix())

	tests := []struct {
		name     string
		budget   int64
		latest   market.LatestPrice
		windowed market.WindowedPrice
		filters  func(f *trading.Filters)
	}{
		{name: "stale under both policy", budget: 10_000, latest: stale, windowed: volumes(1000, 1000)},
		{name: "sell not above buy", budget: 10_000, latest: freshLatest(120, 120), windowed: volumes(1000, 1000)},
		{name: "missing high price", budget: 10_000, latest: market.LatestPrice{Low: ptr(100), LowTime: ptr(now.Unix()), HighTime: ptr(now.Unix())}, windowed: volumes(1000, 1000)},
		{name: "budget below one unit", budget: 99, latest: freshLatest(100, 120), windowed: volumes(1000, 1000)},
		{name: "volume floor", budget: 10_000, latest: freshLatest(100, 120), windowed: volumes(1000, 10),
			filters: func(f *trading.Filters) { f.MinHourlyVolume = 11 }},
		{name: "no volume means no fill capacity", budget: 10_000, latest: freshLatest(100, 120), windowed: volumes(0, 1000)},
		{name: "profit floor", budget: 10_000, latest: freshLatest(100, 120), windowed: volumes(1000, 1000),
			filters: func(f *trading.Filters) { f.MinUnitProfit = 19 }},
		{name: "roi floor", budget: 10_000, latest: freshLatest(100, 120), windowed: volumes(1000, 1000),
			filters: func(f *trading.Filters) { f.MinUnitROI = 0.181 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := permissiveFilters()
			if tt.filters != nil {
				tt.filters(&filters)
			}
			req := trading.SuggestionRequest{
				Budget:   tt.budget,
				Catalog:  market.Catalog{1: item(1, "Test item", 50)},
				Snapshot: market.Snapshot{Latest: map[int]market.LatestPrice{1: tt.latest}, Windowed: map[int]market.WindowedPrice{1: tt.windowed}},
				Filters:  filters,
				TopN:     10,
				Now:      now,
			}

			results, err := trading.NewSuggestionEngine().Generate(req)

			require.NoError(t, err)
			assert.Empty(t, results)
		})
	}
}

func TestGenerate_AnyPolicyAcceptsOneRecentTimestamp(t *testing.T) {
	latest := freshLatest(100, 120)
	latest.HighTime = ptr(now.Add(-30 * time.Minute).Unix())
	filters := permissiveFilters()
	filters.FreshPolicy = trading.FreshnessAny

	results, err := trading.NewSuggestionEngine().Generate(trading.SuggestionRequest{
		Budget:   10_000,
		Catalog:  market.Catalog{1: item(1, "Test item", 50)},
		Snapshot: market.Snapshot{Latest: map[int]market.LatestPrice{1: latest}, Windowed: map[int]market.WindowedPrice{1: volumes(1000, 1000)}},
		Filters:  filters,
		TopN:     10,
		Now:      now,
	})

	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestGenerate_RejectsInvalidConfiguration(t *testing.T) {
	engine := trading.NewSuggestionEngine()

	_, err := engine.Generate(trading.SuggestionRequest{Budget: -1, Filters: permissiveFilters(), Now: now})
	assert.ErrorIs(t, err, trading.ErrInvalidBudget)

	bad := permissiveFilters()
	bad.Aggressiveness = 1.5
	_, err = engine.Generate(trading.SuggestionRequest{Budget: 100, Filters: bad, Now: now})
	assert.ErrorIs(t, err, trading.ErrInvalidFilters)

	bad = permissiveFilters()
	bad.PriceSource = "5m"
	_, err = engine.Generate(trading.SuggestionRequest{Budget: 100, Filters: bad, Now: now})
	assert.ErrorIs(t, err, trading.ErrInvalidFilters)
}

// marketFixture builds a catalog and snapshot with a spread of items so the
// invariants below are checked against more than one shape of input.
func marketFixture() (market.Catalog, market.Snapshot) {
	catalog := market.Catalog{}
	snapshot := market.Snapshot{Latest: map[int]market.LatestPrice{}, Windowed: map[int]market.WindowedPrice{}}

	for id := 1; id <= 40; id++ {
		buy := int64(50 + id*37)
		sell := buy + int64(id%7)*11 + 3
		catalog[id] = item(id, "Item", int64(20+id*5))
		snapshot.Latest[id] = freshLatest(buy, sell)
		snapshot.Windowed[id] = volumes(int64(100+id*13), int64(80+id*17))
	}
	// two items with identical economics to exercise the id tiebreak
	catalog[41] = item(41, "Twin A", 100)
	catalog[42] = item(42, "Twin B", 100)
	snapshot.Latest[41] = freshLatest(1000, 1200)
	snapshot.Latest[42] = freshLatest(1000, 1200)
	snapshot.Windowed[41] = volumes(500, 500)
	snapshot.Windowed[42] = volumes(500, 500)
	return catalog, snapshot
}

func TestGenerate_OutputInvariants(t *testing.T) {
	catalog, snapshot := marketFixture()
	filters := permissiveFilters()
	filters.Aggressiveness = 0.6
	filters.LiquidityFraction = 0.3
	filters.MinUnitROI = 0.01
	filters.MinUnitProfit = 5
	remaining := limits.Allowance{3: 4, 10: 0, 41: 30}
	budget := int64(250_000)

	results, err := trading.NewSuggestionEngine().Generate(trading.SuggestionRequest{
		Budget:    budget,
		Catalog:   catalog,
		Snapshot:  snapshot,
		Filters:   filters,
		Remaining: remaining,
		TopN:      100,
		Now:       now,
	})

	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, s := range results {
		assert.Greater(t, s.SellPrice(), s.BuyPrice())
		assert.GreaterOrEqual(t, s.Quantity(), int64(1))
		assert.GreaterOrEqual(t, s.UnitROI(), filters.MinUnitROI)
		assert.GreaterOrEqual(t, s.UnitProfit(), filters.MinUnitProfit)
		assert.LessOrEqual(t, s.Quantity()*s.BuyPrice(), budget)
		assert.InDelta(t, float64(s.UnitProfit())/float64(s.BuyPrice()), s.UnitROI(), 1e-12)
		if s.BuyLimit() != nil {
			assert.LessOrEqual(t, s.Quantity(), *s.BuyLimit())
		}
		if r, ok := remaining.For(s.ItemID()); ok {
			assert.LessOrEqual(t, s.Quantity(), r)
		}
		assert.NotEqual(t, 10, s.ItemID(), "exhausted allowance must exclude the item")
	}

	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		assert.GreaterOrEqual(t, prev.ProfitPerHour(), cur.ProfitPerHour())
	}
}

func TestGenerate_IsIdempotentAndOrderIndependent(t *testing.T) {
	catalog, snapshot := marketFixture()
	req := trading.SuggestionRequest{
		Budget:   1_000_000,
		Catalog:  catalog,
		Snapshot: snapshot,
		Filters:  permissiveFilters(),
		TopN:     50,
		Now:      now,
	}
	engine := trading.NewSuggestionEngine()

	first, err := engine.Generate(req)
	require.NoError(t, err)
	second, err := engine.Generate(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// a restricted universe listed in reverse order yields the same relative order
	var ids []int
	for i := len(first) - 1; i >= 0; i-- {
		ids = append(ids, first[i].ItemID())
	}
	req.Universe = ids
	restricted, err := engine.Generate(req)
	require.NoError(t, err)
	assert.Equal(t, first, restricted)
}

func TestGenerate_TwinItemsTieBreakOnItemID(t *testing.T) {
	catalog, snapshot := marketFixture()

	results, err := trading.NewSuggestionEngine().Generate(trading.SuggestionRequest{
		Budget:   1_000_000,
		Catalog:  catalog,
		Snapshot: snapshot,
		Filters:  permissiveFilters(),
		TopN:     100,
		Universe: []int{42, 41},
		Now:      now,
	})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 41, results[0].ItemID())
	assert.Equal(t, 42, results[1].ItemID())
}

func TestGenerate_TopNTruncatesToAtLeastOne(t *testing.T) {
	catalog, snapshot := marketFixture()
	req := trading.SuggestionRequest{
		Budget:   1_000_000,
		Catalog:  catalog,
		Snapshot: snapshot,
		Filters:  permissiveFilters(),
		TopN:     0,
		Now:      now,
	}

	results, err := trading.NewSuggestionEngine().Generate(req)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	req.TopN = 3
	results, err = trading.NewSuggestionEngine().Generate(req)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestGenerate_UnknownCatalogItemUsesIDAsName(t *testing.T) {
	results, err := trading.NewSuggestionEngine().Generate(trading.SuggestionRequest{
		Budget:   10_000,
		Catalog:  market.Catalog{},
		Snapshot: market.Snapshot{Latest: map[int]market.LatestPrice{77: freshLatest(100, 120)}, Windowed: map[int]market.WindowedPrice{77: volumes(1000, 1000)}},
		Filters:  permissiveFilters(),
		TopN:     1,
		Now:      now,
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "77", results[0].ItemName())
	assert.Nil(t, results[0].BuyLimit())
	assert.Equal(t, int64(100), results[0].Quantity(), "liquidity and budget bound an uncapped item")
}

func TestSuggestion_SetGuidePrice(t *testing.T) {
	results, err := trading.NewSuggestionEngine().Generate(trading.SuggestionRequest{
		Budget:   10_000,
		Catalog:  market.Catalog{1: item(1, "Test item", 50)},
		Snapshot: market.Snapshot{Latest: map[int]market.LatestPrice{1: freshLatest(100, 120)}, Windowed: map[int]market.WindowedPrice{1: volumes(1000, 1000)}},
		Filters:  permissiveFilters(),
		TopN:     1,
		Now:      now,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	results[0].SetGuidePrice(ptr(115))

	require.NotNil(t, results[0].GuidePrice())
	assert.Equal(t, int64(115), *results[0].GuidePrice())
	assert.Equal(t, int64(5000), results[0].TotalCost())
}

func TestGenerate_ZeroLiquidityFractionKeepsOneUnit(t *testing.T) {
	// Arrange
	filters := permissiveFilters()
	filters.LiquidityFraction = 0
	req := trading.SuggestionRequest{
		Budget:  10_000,
		Catalog: market.Catalog{1: item(1, "Test item", 50)},
		Snapshot: market.Snapshot{
			Latest:   map[int]market.LatestPrice{1: freshLatest(100, 120)},
			Windowed: map[int]market.WindowedPrice{1: volumes(1000, 1000)},
		},
		Filters: filters,
		TopN:    10,
		Now:     now,
	}

	// Act
	results, err := trading.NewSuggestionEngine().Generate(req)

	// Assert
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].Quantity())
	assert.Equal(t, int64(18), results[0].TotalProfit())
	assert.Equal(t, int64(18), results[0].UnitProfit())
}
