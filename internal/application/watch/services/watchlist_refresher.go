package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/andrescamacho/geflip-go/internal/adapters/metrics"
	tradingsvc "github.com/andrescamacho/geflip-go/internal/application/trading/services"
	"github.com/andrescamacho/geflip-go/internal/application/trading/types"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
	"github.com/andrescamacho/geflip-go/internal/domain/watch"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// RefreshResult is the outcome of one refresh of the persisted watchlist
type RefreshResult struct {
	RunID       string                 `json:"run_id"`
	At          time.Time              `json:"at"`
	Watched     []int                  `json:"watched"`
	LimitSource string                 `json:"limit_source,omitempty"`
	Suggestions []*types.SuggestionDTO `json:"suggestions"`
}

// WatchlistRefresher periodically re-evaluates the persisted watchlist in
// restricted-universe mode and keeps the most recent result.
type WatchlistRefresher struct {
	service *tradingsvc.SuggestionService
	repo    watch.WatchlistRepository
	budget  int64
	filters trading.Filters

	mu      sync.RWMutex
	latest  *RefreshResult
	onFresh []func(*RefreshResult)
}

// NewWatchlistRefresher creates a refresher. filters are loosened before use.
func NewWatchlistRefresher(
	service *tradingsvc.SuggestionService,
	repo watch.WatchlistRepository,
	budget int64,
	filters trading.Filters,
) *WatchlistRefresher {
	return &WatchlistRefresher{
		service: service,
		repo:    repo,
		budget:  budget,
		filters: filters.Loosened(),
	}
}

// Subscribe registers fn to receive every successful refresh
func (r *WatchlistRefresher) Subscribe(fn func(*RefreshResult)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFresh = append(r.onFresh, fn)
}

// Latest returns the most recent result, or nil before the first refresh
func (r *WatchlistRefresher) Latest() *RefreshResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// RefreshOnce evaluates the watchlist now. An empty watchlist yields an empty result.
func (r *WatchlistRefresher) RefreshOnce(ctx context.Context) (*RefreshResult, error) {
	result, err := r.refresh(ctx)
	watched := 0
	if result != nil {
		watched = len(result.Watched)
	}
	metrics.RecordWatchRefresh(watched, err)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.latest = result
	subscribers := append([]func(*RefreshResult){}, r.onFresh...)
	r.mu.Unlock()

	for _, fn := range subscribers {
		fn(result)
	}
	return result, nil
}

func (r *WatchlistRefresher) refresh(ctx context.Context) (*RefreshResult, error) {
	items, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	ids := watch.IDs(items)
	result := &RefreshResult{
		RunID:       utils.GenerateRunID("refresh"),
		At:          r.service.Now(),
		Watched:     ids,
		Suggestions: []*types.SuggestionDTO{},
	}
	if len(ids) == 0 {
		return result, nil
	}

	suggestions, state, err := r.service.Generate(ctx, tradingsvc.SuggestParams{
		Budget:   r.budget,
		Filters:  r.filters,
		TopN:     len(ids),
		Universe: ids,
	})
	if err != nil {
		return nil, err
	}
	result.At = state.Now
	result.LimitSource = state.LimitSource
	result.Suggestions = types.ToSuggestionDTOs(suggestions)
	return result, nil
}

// Run refreshes immediately and then on every tick until ctx is cancelled
func (r *WatchlistRefresher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if res, err := r.RefreshOnce(ctx); err != nil {
			if ctx.Err() == nil {
				slog.Warn("watchlist refresh failed", "error", err)
			}
		} else {
			slog.Debug("watchlist refreshed", "run_id", res.RunID, "watched", len(res.Watched), "suggestions", len(res.Suggestions))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
