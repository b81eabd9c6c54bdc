package limitlog_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/adapters/limitlog"
	"github.com/andrescamacho/geflip-go/internal/domain/limits"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func ago(d time.Duration) string {
	return strconv.FormatInt(now.Add(-d).Unix(), 10)
}

func agoMillis(d time.Duration) string {
	return strconv.FormatInt(now.Add(-d).UnixMilli(), 10)
}

func TestFlipper2Source_BuysFileArrayWithAliases(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeFile(t, dir, "flipper2-buys.json", `[
		{"itemId": 2, "ts": `+ago(time.Hour)+`, "quantity": 10},
		{"id": "2", "timestamp": `+agoMillis(2*time.Hour)+`, "qty": 5},
		{"item": 2, "createdAt": `+ago(3*time.Hour)+`, "amount": "7"},
		{"itemId": 2, "time": 0, "createdTime": `+ago(time.Minute)+`, "tQIT": 3},
		{"itemId": 2, "ts": `+ago(5*time.Hour)+`, "quantity": 100},
		{"itemId": 2, "ts": `+ago(time.Minute)+`, "quantity": 0},
		{"itemId": "bad", "ts": `+ago(time.Minute)+`, "quantity": 50},
		42
	]`)
	src := limitlog.NewFlipper2Source(dir)

	// Act
	remaining, err := src.Remaining(context.Background(), map[int]int64{2: 100, 3: 8}, now, limits.DefaultWindow)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(75), remaining[2])
	assert.Equal(t, int64(8), remaining[3])
}

func TestFlipper2Source_FlipsFileJSONL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "flipper2-flips.json",
		`{"buy": {"itemId": 2, "ts": `+ago(time.Hour)+`, "quantity": 12}, "side": "sell"}`+"\n"+
			`{"itemId": 2, "ts": `+ago(time.Hour)+`, "quantity": 4, "side": "BOUGHT"}`+"\n"+
			`{"itemId": 2, "ts": `+ago(time.Hour)+`, "quantity": 30, "type": "sold"}`+"\n"+
			`not json at all`+"\n"+
			"\n"+
			`{"itemId": 2, "ts": `+ago(time.Hour)+`, "quantity": 1, "type": "buying"}`+"\n")
	src := limitlog.NewFlipper2Source(dir)

	remaining, err := src.Remaining(context.Background(), map[int]int64{2: 100}, now, limits.DefaultWindow)

	require.NoError(t, err)
	assert.Equal(t, int64(83), remaining[2])
}

func TestFlipper2Source_OversizedLineDoesNotHideLaterBuys(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	buy := `{"itemId": 2, "ts": ` + ago(time.Hour) + `, "quantity": 40}`
	oversized := `{"itemId": 2, "ts": ` + ago(time.Hour) + `, "quantity": 10, "note": "` + strings.Repeat("x", 2<<20) + `"}`
	writeFile(t, dir, "flipper2-buys.json", buy+"\n"+oversized+"\n"+buy+"\n")
	src := limitlog.NewFlipper2Source(dir)

	// Act
	remaining, err := src.Remaining(context.Background(), map[int]int64{2: 100}, now, limits.DefaultWindow)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(20), remaining[2])
}

func TestFlipper2Source_SingleObjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "flipper2-buys.json", `{"itemId": 9, "ts": `+ago(time.Minute)+`, "quantity": 6}`)
	writeFile(t, dir, "flipper2-flips.json", ``)
	src := limitlog.NewFlipper2Source(dir)

	buys, err := src.Buys(context.Background())

	require.NoError(t, err)
	require.Len(t, buys, 1)
	assert.Equal(t, 9, buys[0].ItemID)
	assert.Equal(t, int64(6), buys[0].Quantity)
	assert.Equal(t, limits.EventKindBuy, buys[0].Kind)
}

func TestFlipper2Source_Availability(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, limitlog.NewFlipper2Source(dir).Available())
	assert.False(t, limitlog.NewFlipper2Source("").Available())

	missing := limitlog.NewFlipper2Source(filepath.Join(dir, "nope"))
	assert.False(t, missing.Available())
	_, err := missing.Remaining(context.Background(), nil, now, limits.DefaultWindow)
	assert.ErrorIs(t, err, limits.ErrSourceUnavailable)
}

func TestSelectSource_PrefersFlipper2OverLocal(t *testing.T) {
	dir := t.TempDir()
	local := limitlog.NewJSONEventLog(filepath.Join(dir, "limits.json"), nil)

	assert.Equal(t, "flipper2", limits.SelectSource(limitlog.NewFlipper2Source(dir), local).Name())
	assert.Equal(t, "local", limits.SelectSource(limitlog.NewFlipper2Source(""), local).Name())
}

func TestDiscoverFlipper2Dir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLIPPER2_PATH", dir)

	assert.Equal(t, dir, limitlog.DiscoverFlipper2Dir(""))

	explicit := t.TempDir()
	assert.Equal(t, explicit, limitlog.DiscoverFlipper2Dir(explicit))
}
