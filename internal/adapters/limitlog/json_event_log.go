package limitlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

const stateVersion = 1

// stateFile is the on-disk layout of the local event log
type stateFile struct {
	Version int               `json:"version"`
	Events  []json.RawMessage `json:"events"`
}

type eventRecord struct {
	Timestamp int64  `json:"ts"`
	ItemID    int    `json:"item_id"`
	Type      string `json:"type"`
	Quantity  int64  `json:"qty"`
}

// JSONEventLog is the local append-only purchase log stored as a JSON state file.
// Events older than limits.RetentionWindow are dropped whenever the file is loaded.
type JSONEventLog struct {
	path  string
	clock shared.Clock
	mu    sync.Mutex
}

// NewJSONEventLog creates a log backed by path. A nil clock uses the real clock.
func NewJSONEventLog(path string, clock shared.Clock) *JSONEventLog {
	return &JSONEventLog{path: expandHome(path), clock: shared.OrRealClock(clock)}
}

func (l *JSONEventLog) Name() string {
	return "local"
}

// Path returns the state file location
func (l *JSONEventLog) Path() string {
	return l.path
}

// Available is always true: a missing file is an empty log
func (l *JSONEventLog) Available() bool {
	return l.path != ""
}

// Remaining implements limits.AllowanceSource
func (l *JSONEventLog) Remaining(ctx context.Context, caps map[int]int64, now time.Time, window time.Duration) (limits.Allowance, error) {
	events, err := l.Events(ctx)
	if err != nil {
		return nil, err
	}
	return limits.ComputeRemaining(events, caps, now, window), nil
}

// Events loads the log, skipping malformed entries and pruning stale ones
func (l *JSONEventLog) Events(ctx context.Context) ([]limits.PurchaseEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// Append validates and records an event, rewriting the state file
func (l *JSONEventLog) Append(ctx context.Context, event limits.PurchaseEvent) error {
	if !event.Kind.IsValid() {
		return fmt.Errorf("%w: %q", limits.ErrInvalidEventKind, string(event.Kind))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	events, err := l.load(ctx)
	if err != nil {
		return err
	}
	events = append(events, event)
	return l.save(events)
}

func (l *JSONEventLog) load(ctx context.Context) ([]limits.PurchaseEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read limits state %s: %w", l.path, err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse limits state %s: %w", l.path, err)
	}

	events := make([]limits.PurchaseEvent, 0, len(state.Events))
	for _, raw := range state.Events {
		var rec eventRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.ItemID == 0 {
			continue
		}
		events = append(events, limits.PurchaseEvent{
			ItemID:    rec.ItemID,
			Quantity:  rec.Quantity,
			Kind:      limits.EventKind(rec.Type),
			Timestamp: rec.Timestamp,
		})
	}
	return limits.PruneStale(events, l.clock.Now(), limits.RetentionWindow), nil
}

func (l *JSONEventLog) save(events []limits.PurchaseEvent) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create limits directory: %w", err)
	}

	records := make([]eventRecord, 0, len(events))
	for _, e := range events {
		records = append(records, eventRecord{
			Timestamp: e.Timestamp,
			ItemID:    e.ItemID,
			Type:      e.Kind.String(),
			Quantity:  e.Quantity,
		})
	}
	data, err := json.MarshalIndent(struct {
		Version int           `json:"version"`
		Events  []eventRecord `json:"events"`
	}{Version: stateVersion, Events: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode limits state: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write limits state: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("failed to replace limits state: %w", err)
	}
	return nil
}
