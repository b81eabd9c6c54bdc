package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/adapters/persistence"
	"github.com/andrescamacho/geflip-go/internal/domain/ledger"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

func TestFlipRepository_CreateAndFind(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := persistence.NewGormFlipRepository(helpers.NewTestDB(t))
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mk := func(itemID int, sell int64, soldAt time.Time) *ledger.Flip {
		f, err := ledger.NewFlip(itemID, "item", 10, 100, sell, soldAt.Add(-time.Hour), soldAt, "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, f))
		return f
	}
	first := mk(2, 120, day.Add(1*time.Hour))
	mk(2, 130, day.Add(2*time.Hour))
	mk(560, 150, day.Add(3*time.Hour))

	// Act
	all, err := repo.Find(ctx, ledger.DefaultQueryOptions())
	require.NoError(t, err)
	itemID := 2
	byItem, err := repo.Find(ctx, ledger.QueryOptions{ItemID: &itemID, OrderBy: "sold_at ASC"})
	require.NoError(t, err)
	start := day.Add(90 * time.Minute)
	recent, err := repo.Find(ctx, ledger.QueryOptions{StartDate: &start, Limit: 1})
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 3)
	assert.Equal(t, 560, all[0].ItemID())

	require.Len(t, byItem, 2)
	assert.True(t, byItem[0].ID().Equals(first.ID()))
	assert.Equal(t, first.Profit(), byItem[0].Profit())

	require.Len(t, recent, 1)
	assert.Equal(t, 560, recent[0].ItemID())

	summary := ledger.Summarize(all)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, int64(3000), summary.TotalCost)
}

func TestFlipRepository_FindByIDMissing(t *testing.T) {
	// Arrange
	repo := persistence.NewGormFlipRepository(helpers.NewTestDB(t))

	// Act
	_, err := repo.FindByID(context.Background(), ledger.NewFlipID())

	// Assert
	var notFound *ledger.ErrFlipNotFound
	assert.True(t, errors.As(err, &notFound))
}
