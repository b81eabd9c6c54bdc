package trading

import (
	"fmt"
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
)

// SuggestionRequest is the complete input for one engine invocation.
//
// Now is read once by the caller and held constant for the whole pass.
// A nil Remaining means no allowance tracking; a nil Universe means every
// item present in either feed.
type SuggestionRequest struct {
	Budget    int64
	Catalog   market.Catalog
	Snapshot  market.Snapshot
	Filters   Filters
	Remaining limits.Allowance
	TopN      int
	Universe  []int
	Now       time.Time
}

// SuggestionEngine turns price snapshots, caps and allowances into ranked flips.
//
// This is a domain service with no infrastructure dependencies. Generate is
// deterministic for identical requests.
type SuggestionEngine struct{}

// NewSuggestionEngine creates a new engine
func NewSuggestionEngine() *SuggestionEngine {
	return &SuggestionEngine{}
}

// Generate evaluates every item in the universe and returns at most max(1, TopN)
// suggestions, best first. Items failing any step are dropped silently.
func (e *SuggestionEngine) Generate(req SuggestionRequest) ([]*Suggestion, error) {
	if req.Budget < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBudget, req.Budget)
	}
	if err := req.Filters.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Suggestion, 0)
	for _, itemID := range universe(req.Snapshot, req.Universe) {
		if s, ok := e.evaluate(itemID, req); ok {
			results = append(results, s)
		}
	}

	RankSuggestions(results)
	return Truncate(results, req.TopN), nil
}

// evaluate runs the per-item pipeline; the first failing step excludes the item
func (e *SuggestionEngine) evaluate(itemID int, req SuggestionRequest) (*Suggestion, bool) {
	f := req.Filters

	latest, hasLatest := req.Snapshot.LatestFor(itemID)
	if !IsFresh(latest, hasLatest, f.FreshMinutes, f.FreshPolicy, req.Now) {
		return nil, false
	}

	quote, ok := SelectPrices(itemID, req.Snapshot, f.PriceSource, f.LatestMaxAgeMinutes, req.Now)
	if !ok || !quote.IsProfitable() {
		return nil, false
	}

	buyVol, sellVol := quote.BuyVolume, quote.SellVolume
	if min(buyVol, sellVol) < max(0, f.MinHourlyVolume) {
		return nil, false
	}

	buy, sell := ApplyAggressiveness(quote.Buy, quote.Sell, f.Aggressiveness)

	item, known := req.Catalog.Lookup(itemID)
	var buyLimit *int64
	if known {
		buyLimit = item.BuyLimit
	}

	var remaining *int64
	if r, ok := req.Remaining.For(itemID); ok {
		r = max(0, r)
		remaining = &r
	}

	quantity, ok := deriveQuantity(req.Budget, buy, buyLimit, remaining, buyVol, sellVol, f)
	if !ok {
		return nil, false
	}

	unitTax := UnitTax(sell)
	totalProfit := quantity*sell - quantity*unitTax - quantity*buy
	unitProfit := floorDiv(totalProfit, quantity)
	unitROI := float64(unitProfit) / float64(buy)
	if unitProfit < f.MinUnitProfit || unitROI < f.MinUnitROI {
		return nil, false
	}

	buyFill := float64(quantity) / float64(max(1, buyVol))
	sellFill := float64(quantity) / float64(max(1, sellVol))
	expected := buyFill + sellFill
	profitPerHour := float64(totalProfit)
	if expected > 0 {
		profitPerHour = float64(totalProfit) / expected
	}

	name := req.Catalog.DisplayName(itemID)

	return &Suggestion{
		itemID:            itemID,
		itemName:          name,
		buyLimit:          buyLimit,
		buyPrice:          buy,
		sellPrice:         sell,
		unitTax:           unitTax,
		unitProfit:        unitProfit,
		unitROI:           unitROI,
		quantity:          quantity,
		totalProfit:       totalProfit,
		hourlyVolume:      min(buyVol, sellVol),
		buyHourlyVolume:   buyVol,
		sellHourlyVolume:  sellVol,
		buyFillHours:      buyFill,
		sellFillHours:     sellFill,
		expectedFillHours: expected,
		profitPerHour:     profitPerHour,
		remainingLimit:    remaining,
		priceSource:       quote.Source,
	}, true
}

// deriveQuantity takes the minimum of the budget, cap, allowance, liquidity and fill-time caps.
// It returns false as soon as any bound leaves nothing to trade.
func deriveQuantity(
	budget, buy int64,
	buyLimit, remaining *int64,
	buyVol, sellVol int64,
	f Filters,
) (int64, bool) {
	quantity := budget / buy
	if quantity <= 0 {
		return 0, false
	}
	if buyLimit != nil {
		quantity = min(quantity, *buyLimit)
	}
	if remaining != nil {
		quantity = min(quantity, *remaining)
	}

	lf := clampUnit(f.LiquidityFraction)
	buyCapacity := max(1, int64(float64(buyVol)*lf))
	sellCapacity := max(1, int64(float64(sellVol)*lf))
	quantity = min(quantity, buyCapacity, sellCapacity)
	if quantity <= 0 {
		return 0, false
	}

	fillHours := max(0, f.MaxFillHours)
	maxByBuyTime := int64(float64(buyVol) * fillHours)
	maxBySellTime := int64(float64(sellVol) * fillHours)
	if maxByBuyTime <= 0 || maxBySellTime <= 0 {
		return 0, false
	}
	quantity = min(quantity, maxByBuyTime, maxBySellTime)
	if quantity <= 0 {
		return 0, false
	}
	return quantity, true
}

// universe returns the ids to evaluate in ascending order, optionally restricted
func universe(snapshot market.Snapshot, restrict []int) []int {
	ids := snapshot.ItemIDs()
	if restrict == nil {
		return ids
	}

	allowed := make(map[int]struct{}, len(restrict))
	for _, id := range restrict {
		allowed[id] = struct{}{}
	}
	filtered := ids[:0]
	for _, id := range ids {
		if _, ok := allowed[id]; ok {
			filtered = append(filtered, id)
		}
	}
	return filtered
}
