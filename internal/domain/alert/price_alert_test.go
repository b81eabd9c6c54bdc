package alert_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/domain/alert"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
)

var now = time.Unix(1_700_000_000, 0).UTC()

func TestPriceAlert_CheckUsesHighThenLow(t *testing.T) {
	// Arrange
	below, err := alert.NewPriceAlert(2, alert.DirectionBelow, 150, now)
	require.NoError(t, err)
	onlyLow := market.LatestPrice{Low: market.Int64Ptr(140)}

	// Act
	fired := below.Check(onlyLow, now)

	// Assert
	assert.True(t, fired)
	assert.False(t, below.IsActive())
	require.NotNil(t, below.TriggeredPrice())
	assert.Equal(t, int64(140), *below.TriggeredPrice())
	assert.Equal(t, now, *below.TriggeredAt())
	assert.False(t, below.Check(onlyLow, now), "triggered alerts do not fire again")
}

func TestPriceAlert_Directions(t *testing.T) {
	above, err := alert.NewPriceAlert(2, alert.DirectionAbove, 200, now)
	require.NoError(t, err)

	prices := market.LatestPrice{High: market.Int64Ptr(199), Low: market.Int64Ptr(250)}
	assert.False(t, above.Check(prices, now), "high is preferred over low")

	prices.High = market.Int64Ptr(200)
	assert.True(t, above.Check(prices, now), "target is inclusive")
}

func TestPriceAlert_NoPriceNeverFires(t *testing.T) {
	a, err := alert.NewPriceAlert(2, alert.DirectionAbove, 1, now)
	require.NoError(t, err)

	assert.False(t, a.Check(market.LatestPrice{}, now))
	assert.True(t, a.IsActive())
}

func TestNewPriceAlert_Validation(t *testing.T) {
	_, err := alert.NewPriceAlert(2, "sideways", 100, now)
	assert.ErrorIs(t, err, alert.ErrInvalidDirection)

	_, err = alert.NewPriceAlert(2, alert.DirectionBelow, 0, now)
	assert.ErrorIs(t, err, alert.ErrInvalidTarget)

	_, err = alert.ParseDirection("UP")
	assert.ErrorIs(t, err, alert.ErrInvalidDirection)
}
