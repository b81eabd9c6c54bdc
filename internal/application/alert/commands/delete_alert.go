package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/alert"
)

// DeleteAlertCommand removes an alert by id
type DeleteAlertCommand struct {
	AlertID string
}

// DeleteAlertHandler handles the DeleteAlert command
type DeleteAlertHandler struct {
	repo alert.AlertRepository
}

// NewDeleteAlertHandler creates a new handler
func NewDeleteAlertHandler(repo alert.AlertRepository) *DeleteAlertHandler {
	return &DeleteAlertHandler{repo: repo}
}

// Handle executes the DeleteAlert command. Returns alert.ErrAlertNotFound for unknown ids.
func (h *DeleteAlertHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DeleteAlertCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeleteAlertCommand")
	}
	if err := h.repo.Delete(ctx, cmd.AlertID); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}
