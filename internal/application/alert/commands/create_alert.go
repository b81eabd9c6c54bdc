package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geflip-go/internal/application/alert/types"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/alert"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// CreateAlertCommand creates an active price alert
type CreateAlertCommand struct {
	ItemID      int
	Direction   string // "below" or "above"
	TargetPrice int64
}

// CreateAlertResponse returns the created alert
type CreateAlertResponse struct {
	Alert *types.AlertDTO
}

// CreateAlertHandler handles the CreateAlert command
type CreateAlertHandler struct {
	repo  alert.AlertRepository
	clock shared.Clock
}

// NewCreateAlertHandler creates a new handler
func NewCreateAlertHandler(repo alert.AlertRepository, clock shared.Clock) *CreateAlertHandler {
	return &CreateAlertHandler{repo: repo, clock: shared.OrRealClock(clock)}
}

// Handle executes the CreateAlert command
func (h *CreateAlertHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateAlertCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateAlertCommand")
	}

	direction, err := alert.ParseDirection(cmd.Direction)
	if err != nil {
		return nil, err
	}
	a, err := alert.NewPriceAlert(cmd.ItemID, direction, cmd.TargetPrice, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save alert: %w", err)
	}
	return &CreateAlertResponse{Alert: types.ToAlertDTO(a, "")}, nil
}
