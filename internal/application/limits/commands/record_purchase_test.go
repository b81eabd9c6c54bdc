package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/adapters/persistence"
	"github.com/andrescamacho/geflip-go/internal/application/limits/commands"
	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

func TestRecordPurchaseHandler_PrunesDatabaseLog(t *testing.T) {
	// Arrange
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()
	clock := shared.NewMockClock(now)
	repo := persistence.NewGormPurchaseEventRepository(helpers.NewTestDB(t), clock)
	require.NoError(t, repo.Append(ctx, limits.PurchaseEvent{
		ItemID: 2, Quantity: 30, Kind: limits.EventKindBuy, Timestamp: now.Add(-24 * time.Hour).Unix(),
	}))
	handler := commands.NewRecordPurchaseHandler(repo, clock)

	// Act
	resp, err := handler.Handle(ctx, &commands.RecordPurchaseCommand{ItemID: 2, Quantity: 5, Kind: "buy"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.(*commands.RecordPurchaseResponse).Event.Quantity)
	events, err := repo.Since(ctx, time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, now.Unix(), events[0].Timestamp)
}

type appendOnlyRecorder struct {
	events []limits.PurchaseEvent
}

func (r *appendOnlyRecorder) Append(_ context.Context, event limits.PurchaseEvent) error {
	r.events = append(r.events, event)
	return nil
}

func TestRecordPurchaseHandler_RejectsUnknownKind(t *testing.T) {
	recorder := &appendOnlyRecorder{}
	handler := commands.NewRecordPurchaseHandler(recorder, shared.NewMockClockAtUnix(1_700_000_000))

	_, err := handler.Handle(context.Background(), &commands.RecordPurchaseCommand{ItemID: 2, Quantity: 1, Kind: "gift"})

	assert.ErrorIs(t, err, limits.ErrInvalidEventKind)
	assert.Empty(t, recorder.events)
}
