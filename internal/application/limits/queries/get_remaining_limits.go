package queries

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/application/trading/services"
)

// GetRemainingLimitsQuery reports remaining purchase allowance per item
type GetRemainingLimitsQuery struct {
	// ItemIDs restricts the report; empty reports items with consumed allowance only
	ItemIDs []int
}

// RemainingLimitDTO is one row of the report
type RemainingLimitDTO struct {
	ItemID    int    `json:"item_id" yaml:"item_id"`
	Name      string `json:"name" yaml:"name"`
	BuyLimit  int64  `json:"buy_limit" yaml:"buy_limit"`
	Remaining int64  `json:"remaining" yaml:"remaining"`
	Used      int64  `json:"used" yaml:"used"`
}

// GetRemainingLimitsResponse contains the report
type GetRemainingLimitsResponse struct {
	Source string // empty when no source is available
	Window time.Duration
	Items  []RemainingLimitDTO
}

// GetRemainingLimitsHandler handles the GetRemainingLimits query
type GetRemainingLimitsHandler struct {
	service *services.SuggestionService
}

// NewGetRemainingLimitsHandler creates a new handler
func NewGetRemainingLimitsHandler(service *services.SuggestionService) *GetRemainingLimitsHandler {
	return &GetRemainingLimitsHandler{service: service}
}

// Handle executes the query
func (h *GetRemainingLimitsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetRemainingLimitsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRemainingLimitsQuery")
	}

	catalog, err := h.service.Feed().FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	remaining, source, err := h.service.RemainingLimits(ctx, catalog, h.service.Now())
	if err != nil {
		return nil, err
	}

	resp := &GetRemainingLimitsResponse{Source: source, Window: h.service.Window()}
	if remaining == nil {
		return resp, nil
	}

	caps := catalog.BuyLimits()
	include := func(id int) bool { return remaining[id] < caps[id] }
	if len(query.ItemIDs) > 0 {
		wanted := make(map[int]bool, len(query.ItemIDs))
		for _, id := range query.ItemIDs {
			wanted[id] = true
		}
		include = func(id int) bool { return wanted[id] }
	}

	for id, left := range remaining {
		if !include(id) {
			continue
		}
		resp.Items = append(resp.Items, RemainingLimitDTO{
			ItemID:    id,
			Name:      catalog.DisplayName(id),
			BuyLimit:  caps[id],
			Remaining: left,
			Used:      caps[id] - left,
		})
	}
	sort.Slice(resp.Items, func(i, j int) bool {
		if resp.Items[i].Remaining != resp.Items[j].Remaining {
			return resp.Items[i].Remaining < resp.Items[j].Remaining
		}
		return resp.Items[i].ItemID < resp.Items[j].ItemID
	})
	return resp, nil
}
