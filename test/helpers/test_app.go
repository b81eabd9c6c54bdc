package helpers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/app"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
)

// TestNowUnix is the frozen clock used by NewTestApp
const TestNowUnix = 1_700_000_000

// NewTestApp wires the full application against an in-memory database, a
// fake feed and a frozen clock. Purchase events go to a JSON log in a temp dir.
// The feed starts with Cannonball (2) and Runite bar (2363), both fresh.
func NewTestApp(t *testing.T) (*app.App, *FakePriceFeed) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Limits.Source = "local"
	cfg.Limits.LocalPath = filepath.Join(t.TempDir(), "limits.json")
	config.SetDefaults(cfg)

	feed := NewFakePriceFeed()
	feed.AddFlippable(2, "Cannonball", 100, 1000, 1200, 10_000, TestNowUnix-60)
	feed.AddFlippable(2363, "Runite bar", 70, 12_000, 12_600, 8_000, TestNowUnix-60)

	a, err := app.New(context.Background(), cfg,
		app.WithDB(NewTestDB(t)),
		app.WithFeed(feed),
		app.WithClock(shared.NewMockClockAtUnix(TestNowUnix)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, feed
}
