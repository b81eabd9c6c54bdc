package types

import (
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/ledger"
)

// FlipDTO is a data transfer object for a logged flip
type FlipDTO struct {
	ID        string    `json:"id" yaml:"id"`
	ItemID    int       `json:"item_id" yaml:"item_id"`
	ItemName  string    `json:"item_name" yaml:"item_name"`
	Quantity  int64     `json:"quantity" yaml:"quantity"`
	BuyPrice  int64     `json:"buy_price" yaml:"buy_price"`
	SellPrice int64     `json:"sell_price" yaml:"sell_price"`
	UnitTax   int64     `json:"unit_tax" yaml:"unit_tax"`
	Cost      int64     `json:"cost" yaml:"cost"`
	Profit    int64     `json:"profit" yaml:"profit"`
	BoughtAt  time.Time `json:"bought_at" yaml:"bought_at"`
	SoldAt    time.Time `json:"sold_at" yaml:"sold_at"`
	Note      string    `json:"note,omitempty" yaml:"note,omitempty"`
}

// ToFlipDTO converts a domain flip
func ToFlipDTO(f *ledger.Flip) *FlipDTO {
	return &FlipDTO{
		ID:        f.ID().String(),
		ItemID:    f.ItemID(),
		ItemName:  f.ItemName(),
		Quantity:  f.Quantity(),
		BuyPrice:  f.BuyPrice(),
		SellPrice: f.SellPrice(),
		UnitTax:   f.UnitTax(),
		Cost:      f.Cost(),
		Profit:    f.Profit(),
		BoughtAt:  f.BoughtAt(),
		SoldAt:    f.SoldAt(),
		Note:      f.Note(),
	}
}
