package watch

import "context"

// WatchlistRepository persists the set of watched items
type WatchlistRepository interface {
	// Add inserts the item; adding an already watched item is a no-op
	Add(ctx context.Context, item WatchedItem) error

	// Remove deletes the item and reports whether it was present
	Remove(ctx context.Context, itemID int) (bool, error)

	// List returns watched items, oldest first
	List(ctx context.Context) ([]WatchedItem, error)
}
