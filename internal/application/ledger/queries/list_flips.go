package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/ledger/types"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/ledger"
)

// ListFlipsQuery lists logged flips, newest sale first
type ListFlipsQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	ItemID    *int
	Limit     int // default 50
	Offset    int
}

// ListFlipsResponse contains the page of flips
type ListFlipsResponse struct {
	Flips []*types.FlipDTO
}

// ListFlipsHandler handles the ListFlips query
type ListFlipsHandler struct {
	flipRepo ledger.FlipRepository
}

// NewListFlipsHandler creates a new ListFlipsHandler
func NewListFlipsHandler(flipRepo ledger.FlipRepository) *ListFlipsHandler {
	return &ListFlipsHandler{flipRepo: flipRepo}
}

// Handle executes the ListFlips query
func (h *ListFlipsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListFlipsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListFlipsQuery")
	}

	opts := ledger.DefaultQueryOptions()
	opts.StartDate = query.StartDate
	opts.EndDate = query.EndDate
	opts.ItemID = query.ItemID
	if query.Limit > 0 {
		opts.Limit = query.Limit
	}
	opts.Offset = query.Offset

	flips, err := h.flipRepo.Find(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query flips: %w", err)
	}

	resp := &ListFlipsResponse{Flips: make([]*types.FlipDTO, len(flips))}
	for i, f := range flips {
		resp.Flips[i] = types.ToFlipDTO(f)
	}
	return resp, nil
}
