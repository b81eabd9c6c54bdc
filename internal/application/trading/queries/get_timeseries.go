package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// GetTimeseriesQuery requests price history points for one item
type GetTimeseriesQuery struct {
	ItemID   int
	Timestep string // 5m, 1h, 6h or 24h; default 5m
}

// GetTimeseriesResponse carries the points oldest first
type GetTimeseriesResponse struct {
	ItemID   int
	Timestep string
	Points   []market.TimeseriesPoint
}

// GetTimeseriesHandler handles timeseries queries
type GetTimeseriesHandler struct {
	provider market.TimeseriesProvider
}

// NewGetTimeseriesHandler creates a new handler
func NewGetTimeseriesHandler(provider market.TimeseriesProvider) *GetTimeseriesHandler {
	return &GetTimeseriesHandler{provider: provider}
}

// Handle executes the query
func (h *GetTimeseriesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTimeseriesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTimeseriesQuery")
	}
	if query.ItemID <= 0 {
		return nil, shared.NewValidationError("item_id", "must be positive")
	}

	timestep := query.Timestep
	if timestep == "" {
		timestep = market.Window5m
	}

	points, err := h.provider.FetchTimeseries(ctx, query.ItemID, timestep)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeseries: %w", err)
	}
	return &GetTimeseriesResponse{ItemID: query.ItemID, Timestep: timestep, Points: points}, nil
}
