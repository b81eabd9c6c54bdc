package alert

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/geflip-go/internal/domain/market"
)

// PriceAlert fires once when an item's latest price crosses a target.
// A triggered alert is inactive and keeps the price that fired it.
type PriceAlert struct {
	id             string
	itemID         int
	direction      Direction
	targetPrice    int64
	active         bool
	createdAt      time.Time
	triggeredAt    *time.Time
	triggeredPrice *int64
}

// NewPriceAlert creates an active alert
func NewPriceAlert(itemID int, direction Direction, targetPrice int64, createdAt time.Time) (*PriceAlert, error) {
	if itemID <= 0 {
		return nil, fmt.Errorf("item id must be positive: %d", itemID)
	}
	if !direction.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, string(direction))
	}
	if targetPrice <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTarget, targetPrice)
	}
	return &PriceAlert{
		id:          uuid.New().String(),
		itemID:      itemID,
		direction:   direction,
		targetPrice: targetPrice,
		active:      true,
		createdAt:   createdAt,
	}, nil
}

// ReconstructPriceAlert rebuilds an alert from persistence
func ReconstructPriceAlert(
	id string,
	itemID int,
	direction Direction,
	targetPrice int64,
	active bool,
	createdAt time.Time,
	triggeredAt *time.Time,
	triggeredPrice *int64,
) *PriceAlert {
	return &PriceAlert{
		id:             id,
		itemID:         itemID,
		direction:      direction,
		targetPrice:    targetPrice,
		active:         active,
		createdAt:      createdAt,
		triggeredAt:    triggeredAt,
		triggeredPrice: triggeredPrice,
	}
}

func (a *PriceAlert) ID() string {
	return a.id
}

func (a *PriceAlert) ItemID() int {
	return a.itemID
}

func (a *PriceAlert) Direction() Direction {
	return a.direction
}

func (a *PriceAlert) TargetPrice() int64 {
	return a.targetPrice
}

func (a *PriceAlert) IsActive() bool {
	return a.active
}

func (a *PriceAlert) CreatedAt() time.Time {
	return a.createdAt
}

func (a *PriceAlert) TriggeredAt() *time.Time {
	return a.triggeredAt
}

func (a *PriceAlert) TriggeredPrice() *int64 {
	return a.triggeredPrice
}

// ReferencePrice picks the price an alert is checked against: high, else low
func ReferencePrice(latest market.LatestPrice) (int64, bool) {
	if latest.High != nil && *latest.High > 0 {
		return *latest.High, true
	}
	if latest.Low != nil && *latest.Low > 0 {
		return *latest.Low, true
	}
	return 0, false
}

// Check evaluates the alert against the latest record and triggers it when crossed.
// Reports whether the alert fired on this call.
func (a *PriceAlert) Check(latest market.LatestPrice, at time.Time) bool {
	if !a.active {
		return false
	}
	price, ok := ReferencePrice(latest)
	if !ok || !a.direction.Crossed(price, a.targetPrice) {
		return false
	}
	_ = a.Trigger(price, at)
	return true
}

// Trigger deactivates the alert, recording the price and time
func (a *PriceAlert) Trigger(price int64, at time.Time) error {
	if !a.active {
		return ErrAlreadyTriggered
	}
	a.active = false
	a.triggeredAt = &at
	a.triggeredPrice = &price
	return nil
}

func (a *PriceAlert) String() string {
	return fmt.Sprintf("Alert[%s, item=%d, %s %d, active=%t]", a.id, a.itemID, a.direction, a.targetPrice, a.active)
}
