package trading

import (
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/market"
)

// Quote is the resolved price/volume quadruple for one item.
//
// BuyVolume is the hourly volume on the side we buy from (low price volume);
// SellVolume is the hourly volume on the side we sell into (high price volume).
type Quote struct {
	Buy        int64
	Sell       int64
	BuyVolume  int64
	SellVolume int64
	Source     PriceSource
}

// IsProfitable reports whether the quote leaves a positive spread
func (q Quote) IsProfitable() bool {
	return q.Buy > 0 && q.Sell > 0 && q.Sell > q.Buy
}

// Spread returns sell minus buy
func (q Quote) Spread() int64 {
	return q.Sell - q.Buy
}

// SelectPrices resolves the buy/sell prices and volumes for an item according to source.
//
// Volumes always come from the windowed record when present, even when prices
// come from the latest record. Returns false when the required record is absent
// or either resolved price is non-positive. Callers still need to reject quotes
// where sell <= buy.
func SelectPrices(
	itemID int,
	snapshot market.Snapshot,
	source PriceSource,
	latestMaxAgeMinutes float64,
	now time.Time,
) (Quote, bool) {
	windowed, hasWindowed := snapshot.WindowedFor(itemID)
	latest, hasLatest := snapshot.LatestFor(itemID)

	var quote Quote
	switch source {
	case PriceSourceWindowed:
		if !hasWindowed {
			return Quote{}, false
		}
		quote = windowedQuote(windowed)

	case PriceSourceLatest:
		if !hasLatest {
			return Quote{}, false
		}
		quote = latestQuote(latest, windowed, hasWindowed)

	case PriceSourceHybrid:
		switch {
		case hasLatest && latestWithin(latest, latestMaxAgeMinutes, now):
			quote = latestQuote(latest, windowed, hasWindowed)
		case hasWindowed:
			quote = windowedQuote(windowed)
		default:
			return Quote{}, false
		}

	default:
		return Quote{}, false
	}

	if quote.Buy <= 0 || quote.Sell <= 0 {
		return Quote{}, false
	}
	return quote, true
}

func windowedQuote(w market.WindowedPrice) Quote {
	return Quote{
		Buy:        market.ValueOrZero(w.AvgLowPrice),
		Sell:       market.ValueOrZero(w.AvgHighPrice),
		BuyVolume:  w.LowPriceVolume,
		SellVolume: w.HighPriceVolume,
		Source:     PriceSourceWindowed,
	}
}

func latestQuote(l market.LatestPrice, w market.WindowedPrice, hasWindowed bool) Quote {
	q := Quote{
		Buy:    market.ValueOrZero(l.Low),
		Sell:   market.ValueOrZero(l.High),
		Source: PriceSourceLatest,
	}
	if hasWindowed {
		q.BuyVolume = w.LowPriceVolume
		q.SellVolume = w.HighPriceVolume
	}
	return q
}

// latestWithin reports whether both timestamps exist and are no older than maxAgeMinutes
func latestWithin(l market.LatestPrice, maxAgeMinutes float64, now time.Time) bool {
	if l.HighTime == nil || l.LowTime == nil {
		return false
	}
	return ageMinutes(*l.HighTime, now) <= maxAgeMinutes &&
		ageMinutes(*l.LowTime, now) <= maxAgeMinutes
}

func ageMinutes(ts int64, now time.Time) float64 {
	return float64(now.Unix()-ts) / 60.0
}
