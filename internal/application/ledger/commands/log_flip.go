package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/common"
	"github.com/andrescamacho/geflip-go/internal/application/ledger/types"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/ledger"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// LogFlipCommand records a completed flip
type LogFlipCommand struct {
	ItemID    int
	Quantity  int64
	BuyPrice  int64
	SellPrice int64
	BoughtAt  *time.Time // optional: defaults to SoldAt
	SoldAt    *time.Time // optional: defaults to now
	Note      string
}

// LogFlipResponse returns the stored flip
type LogFlipResponse struct {
	Flip *types.FlipDTO
}

// LogFlipHandler handles the LogFlip command
type LogFlipHandler struct {
	flipRepo ledger.FlipRepository
	feed     market.PriceFeed
	clock    shared.Clock
}

// NewLogFlipHandler creates a new LogFlipHandler. feed resolves item names and may be nil.
func NewLogFlipHandler(flipRepo ledger.FlipRepository, feed market.PriceFeed, clock shared.Clock) *LogFlipHandler {
	return &LogFlipHandler{
		flipRepo: flipRepo,
		feed:     feed,
		clock:    shared.OrRealClock(clock),
	}
}

// Handle executes the LogFlip command
func (h *LogFlipHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*LogFlipCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *LogFlipCommand")
	}

	soldAt := h.clock.Now()
	if cmd.SoldAt != nil {
		soldAt = *cmd.SoldAt
	}
	boughtAt := soldAt
	if cmd.BoughtAt != nil {
		boughtAt = *cmd.BoughtAt
	}

	flip, err := ledger.NewFlip(
		cmd.ItemID,
		h.itemName(ctx, cmd.ItemID),
		cmd.Quantity,
		cmd.BuyPrice,
		cmd.SellPrice,
		boughtAt,
		soldAt,
		cmd.Note,
	)
	if err != nil {
		return nil, err
	}

	if err := h.flipRepo.Create(ctx, flip); err != nil {
		return nil, fmt.Errorf("failed to persist flip: %w", err)
	}

	common.LoggerFromContext(ctx).Info("flip logged",
		"flip_id", flip.ID().String(),
		"item_id", flip.ItemID(),
		"profit", flip.Profit(),
	)

	return &LogFlipResponse{Flip: types.ToFlipDTO(flip)}, nil
}

func (h *LogFlipHandler) itemName(ctx context.Context, itemID int) string {
	if h.feed == nil {
		return ""
	}
	catalog, err := h.feed.FetchCatalog(ctx)
	if err != nil {
		common.LoggerFromContext(ctx).Debug("item name unavailable", "item_id", itemID, "error", err)
		return ""
	}
	return catalog.DisplayName(itemID)
}
