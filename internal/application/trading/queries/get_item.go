package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/application/trading/types"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// GetItemQuery requests one item with its latest and 1h prices
type GetItemQuery struct {
	ItemID int
}

// GetItemResponse wraps the item view
type GetItemResponse struct {
	Item *types.ItemDTO
}

// GetItemHandler handles item detail queries
type GetItemHandler struct {
	feed market.PriceFeed
}

// NewGetItemHandler creates a new handler
func NewGetItemHandler(feed market.PriceFeed) *GetItemHandler {
	return &GetItemHandler{feed: feed}
}

// Handle executes the query
func (h *GetItemHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetItemQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetItemQuery")
	}

	catalog, err := h.feed.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	item, ok := catalog.Lookup(query.ItemID)
	if !ok {
		return nil, shared.NewItemNotFoundError(query.ItemID)
	}

	latest, err := h.feed.FetchLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest prices: %w", err)
	}
	windowed, err := h.feed.FetchWindowed(ctx, market.Window1h)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch 1h prices: %w", err)
	}

	var lp *market.LatestPrice
	if v, ok := latest[item.ID]; ok {
		lp = &v
	}
	var wp *market.WindowedPrice
	if v, ok := windowed[item.ID]; ok {
		wp = &v
	}
	return &GetItemResponse{Item: types.ToItemDTO(item, lp, wp)}, nil
}
