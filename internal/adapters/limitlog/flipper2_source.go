package limitlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/limits"
)

const (
	flipper2BuysFile  = "flipper2-buys.json"
	flipper2FlipsFile = "flipper2-flips.json"
)

// Flipper2Source reads buy history exported by the Flipper2 RuneLite plugin.
//
// The buys file counts every entry. The flips file counts a nested "buy"
// object when present, otherwise the entry itself when its side is a buy.
type Flipper2Source struct {
	dir string
}

// NewFlipper2Source creates a source reading from dir
func NewFlipper2Source(dir string) *Flipper2Source {
	return &Flipper2Source{dir: dir}
}

func (s *Flipper2Source) Name() string {
	return "flipper2"
}

// Available reports whether the export directory exists
func (s *Flipper2Source) Available() bool {
	if s.dir == "" {
		return false
	}
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

// Remaining implements limits.AllowanceSource
func (s *Flipper2Source) Remaining(ctx context.Context, caps map[int]int64, now time.Time, window time.Duration) (limits.Allowance, error) {
	if !s.Available() {
		return nil, fmt.Errorf("%w: flipper2 directory %q", limits.ErrSourceUnavailable, s.dir)
	}
	events, err := s.Buys(ctx)
	if err != nil {
		return nil, err
	}
	return limits.ComputeRemaining(events, caps, now, window), nil
}

// Buys returns every buy recorded in the export, with timestamps normalized to seconds
func (s *Flipper2Source) Buys(ctx context.Context) ([]limits.PurchaseEvent, error) {
	buys, err := readEntries(filepath.Join(s.dir, flipper2BuysFile))
	if err != nil {
		return nil, err
	}
	flips, err := readEntries(filepath.Join(s.dir, flipper2FlipsFile))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := make([]limits.PurchaseEvent, 0, len(buys)+len(flips))
	skipped := 0
	add := func(e entry) {
		if ev, ok := eventFromEntry(e); ok {
			events = append(events, ev)
		} else {
			skipped++
		}
	}

	for _, e := range buys {
		add(e)
	}
	for _, e := range flips {
		if buy, ok := e.nested("buy"); ok {
			add(buy)
			continue
		}
		if buySides[strings.ToLower(e.stringField(sideAliases))] {
			add(e)
		}
	}

	if skipped > 0 {
		slog.Debug("skipped unusable flipper2 entries", "dir", s.dir, "skipped", skipped)
	}
	return events, nil
}

// eventFromEntry maps an export entry onto a buy event. Entries without a
// parseable item id or with a non-positive quantity are rejected.
func eventFromEntry(e entry) (limits.PurchaseEvent, bool) {
	itemID, ok := e.int64Field(itemIDAliases)
	if !ok || itemID <= 0 {
		return limits.PurchaseEvent{}, false
	}
	qty, ok := e.int64Field(quantityAliases)
	if !ok || qty <= 0 {
		return limits.PurchaseEvent{}, false
	}
	ts, _ := e.int64Field(timestampAliases)

	return limits.PurchaseEvent{
		ItemID:    int(itemID),
		Quantity:  qty,
		Kind:      limits.EventKindBuy,
		Timestamp: limits.NormalizeTimestamp(ts),
	}, true
}

// DiscoverFlipper2Dir returns the first existing directory among the explicit
// path, the FLIPPER2_PATH environment variable and the Bolt launcher default.
// It returns "" when none exist.
func DiscoverFlipper2Dir(explicit string) string {
	candidates := []string{explicit, os.Getenv("FLIPPER2_PATH")}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".local", "share", "bolt-launcher", ".runelite", "flipper2"))
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if info, err := os.Stat(expandHome(c)); err == nil && info.IsDir() {
			return expandHome(c)
		}
	}
	return ""
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
