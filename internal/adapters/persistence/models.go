package persistence

import (
	"time"
)

// PurchaseEventModel represents the purchase_events table (local purchase log)
type PurchaseEventModel struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID    int    `gorm:"column:item_id;not null;index:idx_purchase_events_item_ts"`
	Kind      string `gorm:"column:kind;not null"`
	Quantity  int64  `gorm:"column:quantity;not null"`
	Timestamp int64  `gorm:"column:ts;not null;index:idx_purchase_events_item_ts"` // unix seconds
}

func (PurchaseEventModel) TableName() string {
	return "purchase_events"
}

// WatchItemModel represents the watchlist table
type WatchItemModel struct {
	ItemID  int       `gorm:"column:item_id;primaryKey;autoIncrement:false"`
	AddedAt time.Time `gorm:"column:added_at;not null"`
}

func (WatchItemModel) TableName() string {
	return "watchlist"
}

// AlertModel represents the price_alerts table
type AlertModel struct {
	ID             string     `gorm:"column:id;primaryKey"`
	ItemID         int        `gorm:"column:item_id;not null;index"`
	Direction      string     `gorm:"column:direction;not null"`
	TargetPrice    int64      `gorm:"column:target_price;not null"`
	Active         bool       `gorm:"column:active;not null;index"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null"`
	TriggeredAt    *time.Time `gorm:"column:triggered_at"`
	TriggeredPrice *int64     `gorm:"column:triggered_price"`
}

func (AlertModel) TableName() string {
	return "price_alerts"
}

// FlipModel represents the flips table (completed flip log)
type FlipModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	ItemID    int       `gorm:"column:item_id;not null;index"`
	ItemName  string    `gorm:"column:item_name"`
	Quantity  int64     `gorm:"column:quantity;not null"`
	BuyPrice  int64     `gorm:"column:buy_price;not null"`
	SellPrice int64     `gorm:"column:sell_price;not null"`
	UnitTax   int64     `gorm:"column:unit_tax;not null"`
	Profit    int64     `gorm:"column:profit;not null"`
	BoughtAt  time.Time `gorm:"column:bought_at;not null"`
	SoldAt    time.Time `gorm:"column:sold_at;not null;index"`
	Note      string    `gorm:"column:note;type:text"`
}

func (FlipModel) TableName() string {
	return "flips"
}
