package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geflip-go/internal/application/alert/services"
	"github.com/andrescamacho/geflip-go/internal/application/alert/types"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
)

// CheckAlertsCommand evaluates every active alert once
type CheckAlertsCommand struct{}

// CheckAlertsResponse lists the alerts that fired on this pass
type CheckAlertsResponse struct {
	Checked   int
	Triggered []*types.AlertDTO
}

// CheckAlertsHandler handles the CheckAlerts command
type CheckAlertsHandler struct {
	checker *services.AlertChecker
}

// NewCheckAlertsHandler creates a new handler
func NewCheckAlertsHandler(checker *services.AlertChecker) *CheckAlertsHandler {
	return &CheckAlertsHandler{checker: checker}
}

// Handle executes the CheckAlerts command
func (h *CheckAlertsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*CheckAlertsCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *CheckAlertsCommand")
	}

	result, err := h.checker.Check(ctx)
	if err != nil {
		return nil, err
	}

	resp := &CheckAlertsResponse{Checked: result.Checked}
	for _, a := range result.Triggered {
		resp.Triggered = append(resp.Triggered, types.ToAlertDTO(a, ""))
	}
	return resp, nil
}
