package types

import (
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
)

// SuggestionDTO is a data transfer object for a ranked flip suggestion
type SuggestionDTO struct {
	ItemID            int     `json:"item_id" yaml:"item_id"`
	ItemName          string  `json:"item_name" yaml:"item_name"`
	BuyLimit          *int64  `json:"buy_limit,omitempty" yaml:"buy_limit,omitempty"`
	BuyPrice          int64   `json:"buy_price" yaml:"buy_price"`
	SellPrice         int64   `json:"sell_price" yaml:"sell_price"`
	UnitTax           int64   `json:"unit_tax" yaml:"unit_tax"`
	UnitProfit        int64   `json:"unit_profit" yaml:"unit_profit"`
	UnitROI           float64 `json:"unit_roi" yaml:"unit_roi"`
	Quantity          int64   `json:"quantity" yaml:"quantity"`
	TotalCost         int64   `json:"total_cost" yaml:"total_cost"`
	TotalProfit       int64   `json:"total_profit" yaml:"total_profit"`
	HourlyVolume      int64   `json:"hourly_volume" yaml:"hourly_volume"`
	BuyHourlyVolume   int64   `json:"buy_hourly_volume" yaml:"buy_hourly_volume"`
	SellHourlyVolume  int64   `json:"sell_hourly_volume" yaml:"sell_hourly_volume"`
	BuyFillHours      float64 `json:"buy_fill_hours" yaml:"buy_fill_hours"`
	SellFillHours     float64 `json:"sell_fill_hours" yaml:"sell_fill_hours"`
	ExpectedFillHours float64 `json:"expected_fill_hours" yaml:"expected_fill_hours"`
	ProfitPerHour     float64 `json:"profit_per_hour" yaml:"profit_per_hour"`
	RemainingLimit    *int64  `json:"remaining_limit,omitempty" yaml:"remaining_limit,omitempty"`
	PriceSource       string  `json:"price_source" yaml:"price_source"`
	GuidePrice        *int64  `json:"guide_price,omitempty" yaml:"guide_price,omitempty"`
}

// ToSuggestionDTO converts a domain suggestion
func ToSuggestionDTO(s *trading.Suggestion) *SuggestionDTO {
	return &SuggestionDTO{
		ItemID:            s.ItemID(),
		ItemName:          s.ItemName(),
		BuyLimit:          s.BuyLimit(),
		BuyPrice:          s.BuyPrice(),
		SellPrice:         s.SellPrice(),
		UnitTax:           s.UnitTax(),
		UnitProfit:        s.UnitProfit(),
		UnitROI:           s.UnitROI(),
		Quantity:          s.Quantity(),
		TotalCost:         s.TotalCost(),
		TotalProfit:       s.TotalProfit(),
		HourlyVolume:      s.HourlyVolume(),
		BuyHourlyVolume:   s.BuyHourlyVolume(),
		SellHourlyVolume:  s.SellHourlyVolume(),
		BuyFillHours:      s.BuyFillHours(),
		SellFillHours:     s.SellFillHours(),
		ExpectedFillHours: s.ExpectedFillHours(),
		ProfitPerHour:     s.ProfitPerHour(),
		RemainingLimit:    s.RemainingLimit(),
		PriceSource:       s.PriceSource().String(),
		GuidePrice:        s.GuidePrice(),
	}
}

// ToSuggestionDTOs converts a ranked slice, preserving order
func ToSuggestionDTOs(suggestions []*trading.Suggestion) []*SuggestionDTO {
	out := make([]*SuggestionDTO, len(suggestions))
	for i, s := range suggestions {
		out[i] = ToSuggestionDTO(s)
	}
	return out
}

// ItemDTO describes a catalog item with its current prices
type ItemDTO struct {
	ItemID   int    `json:"item_id" yaml:"item_id"`
	Name     string `json:"name" yaml:"name"`
	BuyLimit *int64 `json:"buy_limit,omitempty" yaml:"buy_limit,omitempty"`
	Members  *bool  `json:"members,omitempty" yaml:"members,omitempty"`

	High     *int64     `json:"high,omitempty" yaml:"high,omitempty"`
	HighTime *time.Time `json:"high_time,omitempty" yaml:"high_time,omitempty"`
	Low      *int64     `json:"low,omitempty" yaml:"low,omitempty"`
	LowTime  *time.Time `json:"low_time,omitempty" yaml:"low_time,omitempty"`

	AvgHighPrice    *int64 `json:"avg_high_price,omitempty" yaml:"avg_high_price,omitempty"`
	AvgLowPrice     *int64 `json:"avg_low_price,omitempty" yaml:"avg_low_price,omitempty"`
	HighPriceVolume int64  `json:"high_price_volume" yaml:"high_price_volume"`
	LowPriceVolume  int64  `json:"low_price_volume" yaml:"low_price_volume"`
}

// ToItemDTO builds an item view; price fields stay empty when no record is given
func ToItemDTO(item market.Item, latest *market.LatestPrice, windowed *market.WindowedPrice) *ItemDTO {
	dto := &ItemDTO{
		ItemID:   item.ID,
		Name:     item.Name,
		BuyLimit: item.BuyLimit,
		Members:  item.Members,
	}
	if latest != nil {
		dto.High = latest.High
		dto.HighTime = unixPtr(latest.HighTime)
		dto.Low = latest.Low
		dto.LowTime = unixPtr(latest.LowTime)
	}
	if windowed != nil {
		dto.AvgHighPrice = windowed.AvgHighPrice
		dto.AvgLowPrice = windowed.AvgLowPrice
		dto.HighPriceVolume = windowed.HighPriceVolume
		dto.LowPriceVolume = windowed.LowPriceVolume
	}
	return dto
}

func unixPtr(ts *int64) *time.Time {
	if ts == nil {
		return nil
	}
	t := time.Unix(*ts, 0).UTC()
	return &t
}
