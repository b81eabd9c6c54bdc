package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/watch"
)

// RemoveWatchCommand removes one item from the persisted watchlist
type RemoveWatchCommand struct {
	ItemID int
}

// RemoveWatchResponse reports whether the item was watched
type RemoveWatchResponse struct {
	Removed bool
}

// RemoveWatchHandler handles the RemoveWatch command
type RemoveWatchHandler struct {
	repo watch.WatchlistRepository
}

// NewRemoveWatchHandler creates a new handler
func NewRemoveWatchHandler(repo watch.WatchlistRepository) *RemoveWatchHandler {
	return &RemoveWatchHandler{repo: repo}
}

// Handle executes the RemoveWatch command
func (h *RemoveWatchHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RemoveWatchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RemoveWatchCommand")
	}
	removed, err := h.repo.Remove(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}
	return &RemoveWatchResponse{Removed: removed}, nil
}
