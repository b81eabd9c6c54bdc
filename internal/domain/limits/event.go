package limits

import (
	"fmt"
	"time"
)

// PurchaseEvent is a single append-only record of a buy or sell.
// Timestamp is unix seconds.
type PurchaseEvent struct {
	ItemID    int
	Quantity  int64
	Kind      EventKind
	Timestamp int64
}

// NewPurchaseEvent validates and creates a PurchaseEvent.
// Invalid kinds are rejected here so they never reach a durable log.
func NewPurchaseEvent(itemID int, quantity int64, kind EventKind, at time.Time) (PurchaseEvent, error) {
	if !kind.IsValid() {
		return PurchaseEvent{}, fmt.Errorf("%w: %q (must be 'buy' or 'sell')", ErrInvalidEventKind, string(kind))
	}
	if itemID <= 0 {
		return PurchaseEvent{}, fmt.Errorf("%w: %d", ErrInvalidItemID, itemID)
	}
	if quantity <= 0 {
		return PurchaseEvent{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	return PurchaseEvent{
		ItemID:    itemID,
		Quantity:  quantity,
		Kind:      kind,
		Timestamp: at.Unix(),
	}, nil
}

// IsBuy reports whether the event consumes purchase allowance
func (e PurchaseEvent) IsBuy() bool {
	return e.Kind == EventKindBuy
}

// Time returns the event timestamp as a time.Time in UTC
func (e PurchaseEvent) Time() time.Time {
	return time.Unix(e.Timestamp, 0).UTC()
}
