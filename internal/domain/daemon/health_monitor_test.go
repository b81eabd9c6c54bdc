package daemon_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/domain/daemon"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

func TestHealthMonitor_TaskGoesStaleAfterThreeMissedIntervals(t *testing.T) {
	// Arrange
	clock := shared.NewMockClockAtUnix(1_700_000_000)
	hm := daemon.NewHealthMonitor(clock)
	hm.Track("refresh", time.Minute)

	// Act + Assert
	clock.Advance(3 * time.Minute)
	assert.True(t, hm.Healthy(), "within grace of the start time")

	clock.Advance(time.Second)
	assert.False(t, hm.Healthy())

	hm.Record("refresh", nil)
	assert.True(t, hm.Healthy())
}

func TestHealthMonitor_RecordsFailures(t *testing.T) {
	clock := shared.NewMockClockAtUnix(1_700_000_000)
	hm := daemon.NewHealthMonitor(clock)
	hm.Track("alerts", 2*time.Minute)

	hm.Record("alerts", errors.New("feed down"))
	hm.Record("alerts", errors.New("feed still down"))

	report := hm.Report()
	require.Len(t, report, 1)
	assert.Equal(t, 2, report[0].Runs)
	assert.Equal(t, 2, report[0].ConsecutiveFailures)
	assert.Equal(t, "feed still down", report[0].LastError)
	assert.Nil(t, report[0].LastSuccess)
	assert.True(t, report[0].Healthy, "failures alone do not exceed the grace period")

	hm.Record("alerts", nil)
	report = hm.Report()
	assert.Equal(t, 0, report[0].ConsecutiveFailures)
	assert.Empty(t, report[0].LastError)
	assert.Equal(t, 2, report[0].Failures)
}

func TestHealthMonitor_UntimedTaskUsesConsecutiveFailures(t *testing.T) {
	hm := daemon.NewHealthMonitor(shared.NewMockClockAtUnix(0))

	hm.Record("oneshot", errors.New("boom"))

	assert.False(t, hm.Healthy())
}

func TestNewStatus(t *testing.T) {
	clock := shared.NewMockClockAtUnix(1_700_000_000)
	hm := daemon.NewHealthMonitor(clock)
	hm.Track("refresh", time.Minute)
	hm.Track("alerts", time.Minute)
	clock.Advance(90 * time.Second)
	hm.Record("refresh", nil)

	st := daemon.NewStatus(42, "dev", "/tmp/geflip.sock", ":8080", hm, clock.Now())

	assert.Equal(t, 42, st.PID)
	assert.Equal(t, "1m30s", st.Uptime)
	assert.True(t, st.Healthy)
	require.Len(t, st.Tasks, 2)
	assert.Equal(t, "alerts", st.Tasks[0].Name)
	assert.Equal(t, "refresh", st.Tasks[1].Name)
}
