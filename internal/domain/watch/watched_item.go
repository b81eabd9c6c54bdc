package watch

import (
	"errors"
	"time"
)

// ErrInvalidItemID indicates a non-positive item id
var ErrInvalidItemID = errors.New("watched item id must be positive")

// WatchedItem is an item the user wants refreshed on every tick
type WatchedItem struct {
	ItemID  int
	AddedAt time.Time
}

// NewWatchedItem validates and creates a WatchedItem
func NewWatchedItem(itemID int, addedAt time.Time) (WatchedItem, error) {
	if itemID <= 0 {
		return WatchedItem{}, ErrInvalidItemID
	}
	return WatchedItem{ItemID: itemID, AddedAt: addedAt}, nil
}

// IDs returns the item ids of the given watched items, in order
func IDs(items []WatchedItem) []int {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ItemID
	}
	return ids
}
