package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/adapters/persistence"
	"github.com/andrescamacho/geflip-go/internal/domain/alert"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

func TestAlertRepository_SaveTriggerAndFindActive(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := persistence.NewGormAlertRepository(helpers.NewTestDB(t))
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	below, err := alert.NewPriceAlert(2, alert.DirectionBelow, 150, created)
	require.NoError(t, err)
	above, err := alert.NewPriceAlert(4151, alert.DirectionAbove, 2_000_000, created.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, below))
	require.NoError(t, repo.Save(ctx, above))

	// Act
	fired := below.Check(market.LatestPrice{High: market.Int64Ptr(149)}, created.Add(time.Hour))
	require.True(t, fired)
	require.NoError(t, repo.Save(ctx, below))

	// Assert
	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, above.ID(), active[0].ID())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	stored, err := repo.FindByID(ctx, below.ID())
	require.NoError(t, err)
	assert.False(t, stored.IsActive())
	require.NotNil(t, stored.TriggeredPrice())
	assert.Equal(t, int64(149), *stored.TriggeredPrice())
	require.NotNil(t, stored.TriggeredAt())
	assert.True(t, stored.TriggeredAt().Equal(created.Add(time.Hour)))
}

func TestAlertRepository_DeleteAndMissing(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := persistence.NewGormAlertRepository(helpers.NewTestDB(t))
	a, err := alert.NewPriceAlert(2, alert.DirectionAbove, 200, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, a))

	// Act
	require.NoError(t, repo.Delete(ctx, a.ID()))
	err = repo.Delete(ctx, a.ID())
	_, findErr := repo.FindByID(ctx, a.ID())

	// Assert
	assert.ErrorIs(t, err, alert.ErrAlertNotFound)
	assert.ErrorIs(t, findErr, alert.ErrAlertNotFound)
}
