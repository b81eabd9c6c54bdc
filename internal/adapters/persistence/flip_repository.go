package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/geflip-go/internal/domain/ledger"
)

// GormFlipRepository implements ledger.FlipRepository using GORM
type GormFlipRepository struct {
	db *gorm.DB
}

// NewGormFlipRepository creates a new GORM flip repository
func NewGormFlipRepository(db *gorm.DB) *GormFlipRepository {
	return &GormFlipRepository{db: db}
}

// Create persists a new flip
func (r *GormFlipRepository) Create(ctx context.Context, flip *ledger.Flip) error {
	model := flipToModel(flip)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create flip: %w", err)
	}
	return nil
}

// FindByID retrieves a flip by its ID
func (r *GormFlipRepository) FindByID(ctx context.Context, id ledger.FlipID) (*ledger.Flip, error) {
	var model FlipModel
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &ledger.ErrFlipNotFound{ID: id.String()}
		}
		return nil, fmt.Errorf("failed to find flip: %w", result.Error)
	}
	return modelToFlip(&model)
}

// Find retrieves flips with optional filtering
func (r *GormFlipRepository) Find(ctx context.Context, opts ledger.QueryOptions) ([]*ledger.Flip, error) {
	query := r.db.WithContext(ctx)

	if opts.StartDate != nil {
		query = query.Where("sold_at >= ?", *opts.StartDate)
	}
	if opts.EndDate != nil {
		query = query.Where("sold_at <= ?", *opts.EndDate)
	}
	if opts.ItemID != nil {
		query = query.Where("item_id = ?", *opts.ItemID)
	}

	orderBy := "sold_at DESC"
	if opts.OrderBy != "" {
		orderBy = opts.OrderBy
	}
	query = query.Order(orderBy)

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []FlipModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find flips: %w", err)
	}

	flips := make([]*ledger.Flip, len(models))
	for i := range models {
		f, err := modelToFlip(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert flip model: %w", err)
		}
		flips[i] = f
	}
	return flips, nil
}

func flipToModel(f *ledger.Flip) *FlipModel {
	return &FlipModel{
		ID:        f.ID().String(),
		ItemID:    f.ItemID(),
		ItemName:  f.ItemName(),
		Quantity:  f.Quantity(),
		BuyPrice:  f.BuyPrice(),
		SellPrice: f.SellPrice(),
		UnitTax:   f.UnitTax(),
		Profit:    f.Profit(),
		BoughtAt:  f.BoughtAt(),
		SoldAt:    f.SoldAt(),
		Note:      f.Note(),
	}
}

func modelToFlip(m *FlipModel) (*ledger.Flip, error) {
	id, err := ledger.NewFlipIDFromString(m.ID)
	if err != nil {
		return nil, err
	}
	return ledger.ReconstructFlip(
		id,
		m.ItemID,
		m.ItemName,
		m.Quantity,
		m.BuyPrice,
		m.SellPrice,
		m.UnitTax,
		m.BoughtAt,
		m.SoldAt,
		m.Note,
	), nil
}
