package alert

import "context"

// AlertRepository persists price alerts
type AlertRepository interface {
	Save(ctx context.Context, a *PriceAlert) error
	FindByID(ctx context.Context, id string) (*PriceAlert, error)
	FindActive(ctx context.Context) ([]*PriceAlert, error)
	FindAll(ctx context.Context) ([]*PriceAlert, error)
	Delete(ctx context.Context, id string) error
}
