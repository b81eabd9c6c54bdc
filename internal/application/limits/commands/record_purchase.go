package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/common"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// EventRecorder appends purchase events to a local log
type EventRecorder interface {
	Append(ctx context.Context, event limits.PurchaseEvent) error
}

// EventPruner is implemented by logs that keep history until asked to drop
// events older than the retention window
type EventPruner interface {
	Prune(ctx context.Context) (int64, error)
}

// RecordPurchaseCommand records a buy or sell in the local log
type RecordPurchaseCommand struct {
	ItemID   int
	Quantity int64
	Kind     string     // "buy" or "sell"
	At       *time.Time // optional: defaults to now
}

// RecordPurchaseResponse echoes the stored event
type RecordPurchaseResponse struct {
	Event limits.PurchaseEvent
}

// RecordPurchaseHandler handles the RecordPurchase command
type RecordPurchaseHandler struct {
	recorder EventRecorder
	clock    shared.Clock
}

// NewRecordPurchaseHandler creates a new RecordPurchaseHandler
func NewRecordPurchaseHandler(recorder EventRecorder, clock shared.Clock) *RecordPurchaseHandler {
	return &RecordPurchaseHandler{
		recorder: recorder,
		clock:    shared.OrRealClock(clock),
	}
}

// Handle executes the RecordPurchase command
func (h *RecordPurchaseHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RecordPurchaseCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RecordPurchaseCommand")
	}

	kind, err := limits.ParseEventKind(cmd.Kind)
	if err != nil {
		return nil, err
	}

	at := h.clock.Now()
	if cmd.At != nil {
		at = *cmd.At
	}

	event, err := limits.NewPurchaseEvent(cmd.ItemID, cmd.Quantity, kind, at)
	if err != nil {
		return nil, err
	}

	if err := h.recorder.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	logger := common.LoggerFromContext(ctx)
	if pruner, ok := h.recorder.(EventPruner); ok {
		removed, err := pruner.Prune(ctx)
		if err != nil {
			logger.Warn("failed to prune purchase log", "error", err)
		} else if removed > 0 {
			logger.Debug("pruned purchase log", "removed", removed)
		}
	}

	logger.Info("purchase recorded",
		"item_id", event.ItemID,
		"quantity", event.Quantity,
		"kind", event.Kind,
	)

	return &RecordPurchaseResponse{Event: event}, nil
}
