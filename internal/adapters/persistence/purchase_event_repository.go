package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// GormPurchaseEventRepository is the SQL-backed local purchase log.
// It implements limits.AllowanceSource.
type GormPurchaseEventRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormPurchaseEventRepository creates a new GORM purchase event repository
func NewGormPurchaseEventRepository(db *gorm.DB, clock shared.Clock) *GormPurchaseEventRepository {
	return &GormPurchaseEventRepository{db: db, clock: shared.OrRealClock(clock)}
}

func (r *GormPurchaseEventRepository) Name() string {
	return "database"
}

func (r *GormPurchaseEventRepository) Available() bool {
	return r.db != nil
}

// Append validates and records a purchase event
func (r *GormPurchaseEventRepository) Append(ctx context.Context, event limits.PurchaseEvent) error {
	if !event.Kind.IsValid() {
		return fmt.Errorf("%w: %q", limits.ErrInvalidEventKind, string(event.Kind))
	}

	model := &PurchaseEventModel{
		ItemID:    event.ItemID,
		Kind:      event.Kind.String(),
		Quantity:  event.Quantity,
		Timestamp: limits.NormalizeTimestamp(event.Timestamp),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record purchase event: %w", err)
	}
	return nil
}

// Since returns events with timestamp >= since, oldest first
func (r *GormPurchaseEventRepository) Since(ctx context.Context, since time.Time) ([]limits.PurchaseEvent, error) {
	var models []PurchaseEventModel
	result := r.db.WithContext(ctx).
		Where("ts >= ?", since.Unix()).
		Order("ts ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load purchase events: %w", result.Error)
	}

	events := make([]limits.PurchaseEvent, len(models))
	for i, m := range models {
		events[i] = limits.PurchaseEvent{
			ItemID:    m.ItemID,
			Quantity:  m.Quantity,
			Kind:      limits.EventKind(m.Kind),
			Timestamp: m.Timestamp,
		}
	}
	return events, nil
}

// Remaining implements limits.AllowanceSource
func (r *GormPurchaseEventRepository) Remaining(ctx context.Context, caps map[int]int64, now time.Time, window time.Duration) (limits.Allowance, error) {
	if window <= 0 {
		window = limits.DefaultWindow
	}
	events, err := r.Since(ctx, now.Add(-window))
	if err != nil {
		return nil, err
	}
	return limits.ComputeRemaining(events, caps, now, window), nil
}

// Prune deletes events older than the retention window and returns how many were removed
func (r *GormPurchaseEventRepository) Prune(ctx context.Context) (int64, error) {
	cutoff := r.clock.Now().Add(-limits.RetentionWindow).Unix()
	result := r.db.WithContext(ctx).Where("ts < ?", cutoff).Delete(&PurchaseEventModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune purchase events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
