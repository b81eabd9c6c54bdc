package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/ledger"
)

// GetFlipSummaryQuery totals flips sold within an optional date range
type GetFlipSummaryQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// GetFlipSummaryResponse is the flip summary
type GetFlipSummaryResponse struct {
	Period      string  `json:"period" yaml:"period"`
	Count       int     `json:"count" yaml:"count"`
	TotalCost   int64   `json:"total_cost" yaml:"total_cost"`
	TotalProfit int64   `json:"total_profit" yaml:"total_profit"`
	ROI         float64 `json:"roi" yaml:"roi"`
}

// GetFlipSummaryHandler handles the GetFlipSummary query
type GetFlipSummaryHandler struct {
	flipRepo ledger.FlipRepository
}

// NewGetFlipSummaryHandler creates a new GetFlipSummaryHandler
func NewGetFlipSummaryHandler(flipRepo ledger.FlipRepository) *GetFlipSummaryHandler {
	return &GetFlipSummaryHandler{flipRepo: flipRepo}
}

// Handle executes the GetFlipSummary query
func (h *GetFlipSummaryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetFlipSummaryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetFlipSummaryQuery")
	}

	opts := ledger.QueryOptions{
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Limit:     0, // no limit
	}
	flips, err := h.flipRepo.Find(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query flips: %w", err)
	}

	summary := ledger.Summarize(flips)
	return &GetFlipSummaryResponse{
		Period:      formatPeriod(query.StartDate, query.EndDate),
		Count:       summary.Count,
		TotalCost:   summary.TotalCost,
		TotalProfit: summary.TotalProfit,
		ROI:         summary.ROI(),
	}, nil
}

func formatPeriod(start, end *time.Time) string {
	from, to := "beginning", "now"
	if start != nil {
		from = start.Format("2006-01-02")
	}
	if end != nil {
		to = end.Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", from, to)
}
