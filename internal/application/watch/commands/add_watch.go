package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/domain/watch"
)

// AddWatchCommand adds items to the persisted watchlist
type AddWatchCommand struct {
	ItemIDs []int
}

// AddWatchResponse reports the resulting watchlist size
type AddWatchResponse struct {
	Watched int
}

// AddWatchHandler handles the AddWatch command
type AddWatchHandler struct {
	repo  watch.WatchlistRepository
	clock shared.Clock
}

// NewAddWatchHandler creates a new handler
func NewAddWatchHandler(repo watch.WatchlistRepository, clock shared.Clock) *AddWatchHandler {
	return &AddWatchHandler{repo: repo, clock: shared.OrRealClock(clock)}
}

// Handle executes the AddWatch command. Items already watched are left untouched.
func (h *AddWatchHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AddWatchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddWatchCommand")
	}
	if len(cmd.ItemIDs) == 0 {
		return nil, shared.NewValidationError("item_ids", "at least one item id is required")
	}

	now := h.clock.Now()
	for _, id := range cmd.ItemIDs {
		item, err := watch.NewWatchedItem(id, now)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", id, err)
		}
		if err := h.repo.Add(ctx, item); err != nil {
			return nil, err
		}
	}

	items, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &AddWatchResponse{Watched: len(items)}, nil
}
