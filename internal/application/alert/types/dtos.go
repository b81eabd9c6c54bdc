package types

import (
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/alert"
)

// AlertDTO is a data transfer object for price alerts
type AlertDTO struct {
	ID             string     `json:"id" yaml:"id"`
	ItemID         int        `json:"item_id" yaml:"item_id"`
	ItemName       string     `json:"item_name,omitempty" yaml:"item_name,omitempty"`
	Direction      string     `json:"direction" yaml:"direction"`
	TargetPrice    int64      `json:"target_price" yaml:"target_price"`
	Active         bool       `json:"active" yaml:"active"`
	CreatedAt      time.Time  `json:"created_at" yaml:"created_at"`
	TriggeredAt    *time.Time `json:"triggered_at,omitempty" yaml:"triggered_at,omitempty"`
	TriggeredPrice *int64     `json:"triggered_price,omitempty" yaml:"triggered_price,omitempty"`
}

// ToAlertDTO converts a domain alert; name may be empty
func ToAlertDTO(a *alert.PriceAlert, name string) *AlertDTO {
	return &AlertDTO{
		ID:             a.ID(),
		ItemID:         a.ItemID(),
		ItemName:       name,
		Direction:      a.Direction().String(),
		TargetPrice:    a.TargetPrice(),
		Active:         a.IsActive(),
		CreatedAt:      a.CreatedAt(),
		TriggeredAt:    a.TriggeredAt(),
		TriggeredPrice: a.TriggeredPrice(),
	}
}
