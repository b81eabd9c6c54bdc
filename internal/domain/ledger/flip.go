package ledger

import (
	"fmt"
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/trading"
)

// Flip is a completed buy-then-sell cycle recorded for history.
// Flips are immutable once created.
type Flip struct {
	id        FlipID
	itemID    int
	itemName  string
	quantity  int64
	buyPrice  int64
	sellPrice int64
	unitTax   int64
	boughtAt  time.Time
	soldAt    time.Time
	note      string
}

// NewFlip creates a new flip with validation. Tax is derived from the sell price.
func NewFlip(
	itemID int,
	itemName string,
	quantity int64,
	buyPrice int64,
	sellPrice int64,
	boughtAt time.Time,
	soldAt time.Time,
	note string,
) (*Flip, error) {
	if itemID <= 0 {
		return nil, &ErrInvalidFlip{Field: "item_id", Reason: "must be positive"}
	}
	if quantity <= 0 {
		return nil, &ErrInvalidFlip{Field: "quantity", Reason: "must be positive"}
	}
	if buyPrice <= 0 {
		return nil, &ErrInvalidFlip{Field: "buy_price", Reason: "must be positive"}
	}
	if sellPrice <= 0 {
		return nil, &ErrInvalidFlip{Field: "sell_price", Reason: "must be positive"}
	}
	if soldAt.Before(boughtAt) {
		return nil, &ErrInvalidFlip{
			Field:  "sold_at",
			Reason: fmt.Sprintf("sale at %s precedes purchase at %s", soldAt, boughtAt),
		}
	}

	return &Flip{
		id:        NewFlipID(),
		itemID:    itemID,
		itemName:  itemName,
		quantity:  quantity,
		buyPrice:  buyPrice,
		sellPrice: sellPrice,
		unitTax:   trading.UnitTax(sellPrice),
		boughtAt:  boughtAt,
		soldAt:    soldAt,
		note:      note,
	}, nil
}

// ReconstructFlip reconstructs a flip from persistence
func ReconstructFlip(
	id FlipID,
	itemID int,
	itemName string,
	quantity int64,
	buyPrice int64,
	sellPrice int64,
	unitTax int64,
	boughtAt time.Time,
	soldAt time.Time,
	note string,
) *Flip {
	return &Flip{
		id:        id,
		itemID:    itemID,
		itemName:  itemName,
		quantity:  quantity,
		buyPrice:  buyPrice,
		sellPrice: sellPrice,
		unitTax:   unitTax,
		boughtAt:  boughtAt,
		soldAt:    soldAt,
		note:      note,
	}
}

// Getters (all fields are immutable)

func (f *Flip) ID() FlipID {
	return f.id
}

func (f *Flip) ItemID() int {
	return f.itemID
}

func (f *Flip) ItemName() string {
	return f.itemName
}

func (f *Flip) Quantity() int64 {
	return f.quantity
}

func (f *Flip) BuyPrice() int64 {
	return f.buyPrice
}

func (f *Flip) SellPrice() int64 {
	return f.sellPrice
}

func (f *Flip) UnitTax() int64 {
	return f.unitTax
}

func (f *Flip) BoughtAt() time.Time {
	return f.boughtAt
}

func (f *Flip) SoldAt() time.Time {
	return f.soldAt
}

func (f *Flip) Note() string {
	return f.note
}

// Profit returns the net profit after tax
func (f *Flip) Profit() int64 {
	return f.quantity*f.sellPrice - f.quantity*f.unitTax - f.quantity*f.buyPrice
}

// Cost returns the total spent on the buy side
func (f *Flip) Cost() int64 {
	return f.quantity * f.buyPrice
}

// Duration returns the time between purchase and sale
func (f *Flip) Duration() time.Duration {
	return f.soldAt.Sub(f.boughtAt)
}

// String provides a human-readable representation
func (f *Flip) String() string {
	return fmt.Sprintf("Flip[%s, item=%d, qty=%d, %d->%d, profit=%d]",
		f.id, f.itemID, f.quantity, f.buyPrice, f.sellPrice, f.Profit())
}
