package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/geflip-go/internal/domain/alert"
)

// GormAlertRepository implements alert.AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GORM alert repository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// Save inserts or updates an alert
func (r *GormAlertRepository) Save(ctx context.Context, a *alert.PriceAlert) error {
	model := alertToModel(a)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

// FindByID retrieves an alert by id
func (r *GormAlertRepository) FindByID(ctx context.Context, id string) (*alert.PriceAlert, error) {
	var model AlertModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", alert.ErrAlertNotFound, id)
		}
		return nil, fmt.Errorf("failed to find alert: %w", result.Error)
	}
	return modelToAlert(&model), nil
}

// FindActive returns alerts that have not fired yet
func (r *GormAlertRepository) FindActive(ctx context.Context) ([]*alert.PriceAlert, error) {
	return r.find(r.db.WithContext(ctx).Where("active = ?", true))
}

// FindAll returns every alert, newest first
func (r *GormAlertRepository) FindAll(ctx context.Context) ([]*alert.PriceAlert, error) {
	return r.find(r.db.WithContext(ctx))
}

// Delete removes an alert
func (r *GormAlertRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&AlertModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", alert.ErrAlertNotFound, id)
	}
	return nil
}

func (r *GormAlertRepository) find(query *gorm.DB) ([]*alert.PriceAlert, error) {
	var models []AlertModel
	if err := query.Order("created_at DESC, id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find alerts: %w", err)
	}
	alerts := make([]*alert.PriceAlert, len(models))
	for i := range models {
		alerts[i] = modelToAlert(&models[i])
	}
	return alerts, nil
}

func alertToModel(a *alert.PriceAlert) *AlertModel {
	return &AlertModel{
		ID:             a.ID(),
		ItemID:         a.ItemID(),
		Direction:      a.Direction().String(),
		TargetPrice:    a.TargetPrice(),
		Active:         a.IsActive(),
		CreatedAt:      a.CreatedAt(),
		TriggeredAt:    a.TriggeredAt(),
		TriggeredPrice: a.TriggeredPrice(),
	}
}

func modelToAlert(m *AlertModel) *alert.PriceAlert {
	return alert.ReconstructPriceAlert(
		m.ID,
		m.ItemID,
		alert.Direction(m.Direction),
		m.TargetPrice,
		m.Active,
		m.CreatedAt,
		m.TriggeredAt,
		m.TriggeredPrice,
	)
}
