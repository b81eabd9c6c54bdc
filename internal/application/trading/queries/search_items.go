package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/application/trading/types"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// SearchItemsQuery finds catalog items whose name contains Query
type SearchItemsQuery struct {
	Query string
	Limit int // default 20
}

// SearchItemsResponse lists matches alphabetically
type SearchItemsResponse struct {
	Items []*types.ItemDTO
	Total int // matches before Limit was applied
}

// SearchItemsHandler handles item search queries
type SearchItemsHandler struct {
	feed market.PriceFeed
}

// NewSearchItemsHandler creates a new handler
func NewSearchItemsHandler(feed market.PriceFeed) *SearchItemsHandler {
	return &SearchItemsHandler{feed: feed}
}

// Handle executes the query
func (h *SearchItemsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*SearchItemsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SearchItemsQuery")
	}
	if strings.TrimSpace(query.Query) == "" {
		return nil, shared.NewValidationError("query", "must not be empty")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	catalog, err := h.feed.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	matches := catalog.Search(query.Query)
	resp := &SearchItemsResponse{Total: len(matches)}
	for i, item := range matches {
		if i >= limit {
			break
		}
		resp.Items = append(resp.Items, types.ToItemDTO(item, nil, nil))
	}
	return resp, nil
}
