package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/adapters/persistence"
	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

func TestPurchaseEventRepository_RemainingOverWindow(t *testing.T) {
	// Arrange
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()
	repo := persistence.NewGormPurchaseEventRepository(helpers.NewTestDB(t), shared.NewMockClock(now))

	record := func(itemID int, qty int64, kind limits.EventKind, ago time.Duration) {
		event, err := limits.NewPurchaseEvent(itemID, qty, kind, now.Add(-ago))
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, event))
	}
	record(2, 30, limits.EventKindBuy, time.Hour)
	record(2, 30, limits.EventKindBuy, 4*time.Hour) // boundary is inclusive
	record(2, 500, limits.EventKindBuy, 5*time.Hour)
	record(2, 10, limits.EventKindSell, time.Minute)
	record(4, 1_000, limits.EventKindBuy, time.Minute)

	// Act
	remaining, err := repo.Remaining(ctx, map[int]int64{2: 100, 4: 500, 6: 25}, now, 4*time.Hour)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, limits.Allowance{2: 40, 4: 0, 6: 25}, remaining)
}

func TestPurchaseEventRepository_AppendRejectsUnknownKind(t *testing.T) {
	// Arrange
	repo := persistence.NewGormPurchaseEventRepository(helpers.NewTestDB(t), nil)

	// Act
	err := repo.Append(context.Background(), limits.PurchaseEvent{ItemID: 2, Quantity: 5, Kind: "gift", Timestamp: 1})

	// Assert
	assert.ErrorIs(t, err, limits.ErrInvalidEventKind)
}

func TestPurchaseEventRepository_NormalizesMillisecondTimestamps(t *testing.T) {
	// Arrange
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()
	repo := persistence.NewGormPurchaseEventRepository(helpers.NewTestDB(t), shared.NewMockClock(now))
	event := limits.PurchaseEvent{ItemID: 2, Quantity: 5, Kind: limits.EventKindBuy, Timestamp: now.Add(-time.Minute).UnixMilli()}

	// Act
	require.NoError(t, repo.Append(ctx, event))
	events, err := repo.Since(ctx, now.Add(-time.Hour))

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, now.Add(-time.Minute).Unix(), events[0].Timestamp)
}

func TestPurchaseEventRepository_Prune(t *testing.T) {
	// Arrange
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()
	clock := shared.NewMockClock(now)
	repo := persistence.NewGormPurchaseEventRepository(helpers.NewTestDB(t), clock)
	for _, ago := range []time.Duration{time.Hour, 9 * time.Hour, 24 * time.Hour} {
		require.NoError(t, repo.Append(ctx, limits.PurchaseEvent{
			ItemID: 2, Quantity: 1, Kind: limits.EventKindBuy, Timestamp: now.Add(-ago).Unix(),
		}))
	}

	// Act
	removed, err := repo.Prune(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	events, err := repo.Since(ctx, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestPurchaseEventRepository_IsAnAllowanceSource(t *testing.T) {
	var source limits.AllowanceSource = persistence.NewGormPurchaseEventRepository(helpers.NewTestDB(t), nil)

	assert.Equal(t, "database", source.Name())
	assert.True(t, source.Available())
}
