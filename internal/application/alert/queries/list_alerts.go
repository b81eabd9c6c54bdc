package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geflip-go/internal/application/alert/types"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/alert"
)

// ListAlertsQuery lists alerts, optionally only active ones
type ListAlertsQuery struct {
	ActiveOnly bool
}

// ListAlertsResponse contains the alerts
type ListAlertsResponse struct {
	Alerts []*types.AlertDTO
}

// ListAlertsHandler handles the ListAlerts query
type ListAlertsHandler struct {
	repo alert.AlertRepository
}

// NewListAlertsHandler creates a new handler
func NewListAlertsHandler(repo alert.AlertRepository) *ListAlertsHandler {
	return &ListAlertsHandler{repo: repo}
}

// Handle executes the ListAlerts query
func (h *ListAlertsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListAlertsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListAlertsQuery")
	}

	var (
		alerts []*alert.PriceAlert
		err    error
	)
	if query.ActiveOnly {
		alerts, err = h.repo.FindActive(ctx)
	} else {
		alerts, err = h.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	resp := &ListAlertsResponse{Alerts: make([]*types.AlertDTO, 0, len(alerts))}
	for _, a := range alerts {
		resp.Alerts = append(resp.Alerts, types.ToAlertDTO(a, ""))
	}
	return resp, nil
}
