package queries

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/watch"
)

// ListWatchlistQuery lists watched items
type ListWatchlistQuery struct{}

// WatchedItemDTO is one watched item
type WatchedItemDTO struct {
	ItemID  int       `json:"item_id" yaml:"item_id"`
	Name    string    `json:"name" yaml:"name"`
	AddedAt time.Time `json:"added_at" yaml:"added_at"`
}

// ListWatchlistResponse contains the watched items, oldest first
type ListWatchlistResponse struct {
	Items []WatchedItemDTO
}

// ListWatchlistHandler handles the ListWatchlist query
type ListWatchlistHandler struct {
	repo watch.WatchlistRepository
	feed market.PriceFeed
}

// NewListWatchlistHandler creates a new handler; feed may be nil, in which case
// names fall back to the item id.
func NewListWatchlistHandler(repo watch.WatchlistRepository, feed market.PriceFeed) *ListWatchlistHandler {
	return &ListWatchlistHandler{repo: repo, feed: feed}
}

// Handle executes the ListWatchlist query
func (h *ListWatchlistHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListWatchlistQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListWatchlistQuery")
	}

	items, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	catalog := market.Catalog{}
	if h.feed != nil && len(items) > 0 {
		if c, err := h.feed.FetchCatalog(ctx); err != nil {
			slog.Debug("watchlist names unavailable", "error", err)
		} else {
			catalog = c
		}
	}

	resp := &ListWatchlistResponse{Items: make([]WatchedItemDTO, len(items))}
	for i, it := range items {
		resp.Items[i] = WatchedItemDTO{ItemID: it.ItemID, Name: catalog.DisplayName(it.ItemID), AddedAt: it.AddedAt}
	}
	return resp, nil
}
