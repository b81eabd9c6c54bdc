package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/adapters/persistence"
	"github.com/andrescamacho/geflip-go/internal/application/alert/services"
	"github.com/andrescamacho/geflip-go/internal/domain/alert"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/database"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

const nowUnix = 1_700_000_000

func setup(t *testing.T) (*persistence.GormAlertRepository, *helpers.FakePriceFeed, *shared.MockClock) {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return persistence.NewGormAlertRepository(db), helpers.NewFakePriceFeed(), shared.NewMockClockAtUnix(nowUnix)
}

func newAlert(t *testing.T, repo alert.AlertRepository, itemID int, dir alert.Direction, target int64) *alert.PriceAlert {
	t.Helper()
	a, err := alert.NewPriceAlert(itemID, dir, target, time.Unix(nowUnix-3600, 0).UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), a))
	return a
}

func TestAlertChecker_TriggersCrossedAlerts(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo, feed, clock := setup(t)
	below := newAlert(t, repo, 2, alert.DirectionBelow, 190)
	above := newAlert(t, repo, 2, alert.DirectionAbove, 250)
	lowOnly := newAlert(t, repo, 3, alert.DirectionAbove, 40)
	newAlert(t, repo, 99, alert.DirectionBelow, 10) // no price record

	feed.SetLatest(2, 185, nowUnix, 180, nowUnix)
	feed.Latest[3] = market.LatestPrice{Low: market.Int64Ptr(45)}

	var notified []string
	checker := services.NewAlertChecker(repo, feed, clock)
	checker.OnTrigger = func(a *alert.PriceAlert) { notified = append(notified, a.ID()) }

	// Act
	result, err := checker.Check(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, result.Checked)
	require.Len(t, result.Triggered, 2)
	assert.ElementsMatch(t, []string{below.ID(), lowOnly.ID()}, notified)

	stored, err := repo.FindByID(ctx, below.ID())
	require.NoError(t, err)
	assert.False(t, stored.IsActive())
	assert.Equal(t, int64(185), *stored.TriggeredPrice(), "high is preferred over low")
	assert.Equal(t, clock.Now(), stored.TriggeredAt().UTC())

	stillActive, err := repo.FindByID(ctx, above.ID())
	require.NoError(t, err)
	assert.True(t, stillActive.IsActive())

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestAlertChecker_TriggeredAlertsDoNotFireTwice(t *testing.T) {
	ctx := context.Background()
	repo, feed, clock := setup(t)
	newAlert(t, repo, 2, alert.DirectionBelow, 190)
	feed.SetLatest(2, 185, nowUnix, 180, nowUnix)
	checker := services.NewAlertChecker(repo, feed, clock)

	first, err := checker.Check(ctx)
	require.NoError(t, err)
	second, err := checker.Check(ctx)
	require.NoError(t, err)

	assert.Len(t, first.Triggered, 1)
	assert.Equal(t, 0, second.Checked)
	assert.Empty(t, second.Triggered)
}

func TestAlertChecker_NoActiveAlertsSkipsFeed(t *testing.T) {
	repo, feed, clock := setup(t)
	checker := services.NewAlertChecker(repo, feed, clock)

	result, err := checker.Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Checked)
	assert.Equal(t, 0, feed.Calls("FetchLatest"))
}

func TestAlertChecker_FeedFailure(t *testing.T) {
	repo, feed, clock := setup(t)
	newAlert(t, repo, 2, alert.DirectionBelow, 190)
	feed.Err = market.ErrFeedUnavailable

	_, err := services.NewAlertChecker(repo, feed, clock).Check(context.Background())

	assert.ErrorIs(t, err, market.ErrFeedUnavailable)
}
