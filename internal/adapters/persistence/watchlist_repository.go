package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/geflip-go/internal/domain/watch"
)

// GormWatchlistRepository implements watch.WatchlistRepository using GORM
type GormWatchlistRepository struct {
	db *gorm.DB
}

// NewGormWatchlistRepository creates a new GORM watchlist repository
func NewGormWatchlistRepository(db *gorm.DB) *GormWatchlistRepository {
	return &GormWatchlistRepository{db: db}
}

// Add inserts the item, ignoring duplicates
func (r *GormWatchlistRepository) Add(ctx context.Context, item watch.WatchedItem) error {
	model := &WatchItemModel{ItemID: item.ItemID, AddedAt: item.AddedAt}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to add watched item: %w", result.Error)
	}
	return nil
}

// Remove deletes the item and reports whether it existed
func (r *GormWatchlistRepository) Remove(ctx context.Context, itemID int) (bool, error) {
	result := r.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&WatchItemModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove watched item: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// List returns watched items, oldest first
func (r *GormWatchlistRepository) List(ctx context.Context) ([]watch.WatchedItem, error) {
	var models []WatchItemModel
	if err := r.db.WithContext(ctx).Order("added_at ASC, item_id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list watched items: %w", err)
	}

	items := make([]watch.WatchedItem, len(models))
	for i, m := range models {
		items[i] = watch.WatchedItem{ItemID: m.ItemID, AddedAt: m.AddedAt}
	}
	return items, nil
}
