package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/andrescamacho/geflip-go/internal/adapters/metrics"
	tradingsvc "github.com/andrescamacho/geflip-go/internal/application/trading/services"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
	"github.com/andrescamacho/geflip-go/internal/domain/watch"
)

// ErrNoInitialSuggestions is returned when the first selection finds nothing to watch
var ErrNoInitialSuggestions = errors.New("no initial suggestions")

// SessionOptions configures a live watch session
type SessionOptions struct {
	Budget int64
	// Top is the size of the initial selection
	Top int
	// Filters select the initial and auto-added items; refreshes use Filters.Loosened()
	Filters    trading.Filters
	AutoAdd    bool
	AutoAddTop int
	MaxWatch   int
	GPFile     string
}

// Row is one watched item on a tick, paired with its reading from the previous tick
type Row struct {
	Suggestion *trading.Suggestion
	Previous   *trading.Suggestion
}

func (r Row) compare(get func(*trading.Suggestion) float64, higherIsBetter bool) watch.Change {
	if r.Previous == nil {
		return watch.Compare(get(r.Suggestion), nil, higherIsBetter)
	}
	prev := get(r.Previous)
	return watch.Compare(get(r.Suggestion), &prev, higherIsBetter)
}

// BuyPriceChange treats a cheaper buy as favourable
func (r Row) BuyPriceChange() watch.Change {
	return r.compare(func(s *trading.Suggestion) float64 { return float64(s.BuyPrice()) }, false)
}

func (r Row) SellPriceChange() watch.Change {
	return r.compare(func(s *trading.Suggestion) float64 { return float64(s.SellPrice()) }, true)
}

func (r Row) UnitProfitChange() watch.Change {
	return r.compare(func(s *trading.Suggestion) float64 { return float64(s.UnitProfit()) }, true)
}

func (r Row) TotalProfitChange() watch.Change {
	return r.compare(func(s *trading.Suggestion) float64 { return float64(s.TotalProfit()) }, true)
}

func (r Row) BuyVolumeChange() watch.Change {
	return r.compare(func(s *trading.Suggestion) float64 { return float64(s.BuyHourlyVolume()) }, true)
}

func (r Row) SellVolumeChange() watch.Change {
	return r.compare(func(s *trading.Suggestion) float64 { return float64(s.SellHourlyVolume()) }, true)
}

func (r Row) ProfitPerHourChange() watch.Change {
	return r.compare(func(s *trading.Suggestion) float64 { return s.ProfitPerHour() }, true)
}

// Tick is the state rendered after one selection or refresh
type Tick struct {
	At          time.Time
	Rows        []Row
	Added       []int
	GP          *int64
	LimitSource string
}

// Session tracks a growing set of watched items across refreshes.
// It is not safe for concurrent use.
type Session struct {
	service   *tradingsvc.SuggestionService
	opts      SessionOptions
	watchlist *watch.Watchlist
	prev      map[int]*trading.Suggestion
}

// NewSession creates a session; call Start before Refresh
func NewSession(service *tradingsvc.SuggestionService, opts SessionOptions) *Session {
	if opts.Top <= 0 {
		opts.Top = 30
	}
	if opts.AutoAddTop <= 0 {
		opts.AutoAddTop = 50
	}
	if opts.MaxWatch <= 0 {
		opts.MaxWatch = 100
	}
	return &Session{
		service:   service,
		opts:      opts,
		watchlist: watch.NewWatchlist(opts.MaxWatch),
		prev:      make(map[int]*trading.Suggestion),
	}
}

// WatchedIDs returns the watched item ids in insertion order
func (s *Session) WatchedIDs() []int {
	return s.watchlist.IDs()
}

// Start runs the initial selection and seeds the watchlist
func (s *Session) Start(ctx context.Context) (*Tick, error) {
	state, err := s.service.LoadMarket(ctx)
	if err != nil {
		return nil, err
	}
	initial, err := s.service.Suggest(ctx, state, tradingsvc.SuggestParams{
		Budget:  s.opts.Budget,
		Filters: s.opts.Filters,
		TopN:    s.opts.Top,
	})
	if err != nil {
		return nil, err
	}
	if len(initial) == 0 {
		return nil, ErrNoInitialSuggestions
	}

	rows := make([]Row, 0, len(initial))
	for _, sug := range initial {
		if !s.watchlist.Add(sug.ItemID()) {
			continue
		}
		rows = append(rows, Row{Suggestion: sug})
	}
	s.remember(rows)
	metrics.RecordWatchRefresh(s.watchlist.Len(), nil)

	return &Tick{
		At:          state.Now,
		Rows:        rows,
		GP:          ReadGPFile(s.opts.GPFile),
		LimitSource: state.LimitSource,
	}, nil
}

// Refresh re-evaluates the watched items with loosened filters, then auto-adds
// new top candidates until the watchlist is full. Watched items that no longer
// qualify keep their previous reading.
func (s *Session) Refresh(ctx context.Context) (*Tick, error) {
	tick, err := s.refresh(ctx)
	metrics.RecordWatchRefresh(s.watchlist.Len(), err)
	return tick, err
}

func (s *Session) refresh(ctx context.Context) (*Tick, error) {
	state, err := s.service.LoadMarket(ctx)
	if err != nil {
		return nil, err
	}

	var refreshed []*trading.Suggestion
	if ids := s.watchlist.IDs(); len(ids) > 0 {
		refreshed, err = s.service.Suggest(ctx, state, tradingsvc.SuggestParams{
			Budget:   s.opts.Budget,
			Filters:  s.opts.Filters.Loosened(),
			TopN:     len(ids),
			Universe: ids,
		})
		if err != nil {
			return nil, err
		}
	}

	var added []int
	if s.opts.AutoAdd && !s.watchlist.IsFull() {
		candidates, err := s.service.Suggest(ctx, state, tradingsvc.SuggestParams{
			Budget:  s.opts.Budget,
			Filters: s.opts.Filters,
			TopN:    s.opts.AutoAddTop,
		})
		if err != nil {
			return nil, err
		}
		for _, cand := range candidates {
			if s.watchlist.Contains(cand.ItemID()) {
				continue
			}
			if !s.watchlist.Add(cand.ItemID()) {
				break
			}
			refreshed = append(refreshed, cand)
			added = append(added, cand.ItemID())
		}
	}

	byID := make(map[int]*trading.Suggestion, len(refreshed))
	for _, sug := range refreshed {
		byID[sug.ItemID()] = sug
	}
	current := make([]*trading.Suggestion, 0, s.watchlist.Len())
	for _, id := range s.watchlist.IDs() {
		if sug, ok := byID[id]; ok {
			current = append(current, sug)
		} else if sug, ok := s.prev[id]; ok {
			current = append(current, sug)
		}
	}
	trading.RankSuggestions(current)

	rows := make([]Row, len(current))
	for i, sug := range current {
		rows[i] = Row{Suggestion: sug, Previous: s.prev[sug.ItemID()]}
	}
	s.remember(rows)

	return &Tick{
		At:          state.Now,
		Rows:        rows,
		Added:       added,
		GP:          ReadGPFile(s.opts.GPFile),
		LimitSource: state.LimitSource,
	}, nil
}

func (s *Session) remember(rows []Row) {
	s.prev = make(map[int]*trading.Suggestion, len(rows))
	for _, r := range rows {
		s.prev[r.Suggestion.ItemID()] = r.Suggestion
	}
}

// Run starts the session and refreshes it every interval until ctx is done.
// A failed refresh is logged and the previous tick stays on screen.
func (s *Session) Run(ctx context.Context, interval time.Duration, render func(*Tick)) error {
	tick, err := s.Start(ctx)
	if err != nil {
		return err
	}
	render(tick)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		tick, err := s.Refresh(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("watch refresh failed", "error", err)
			continue
		}
		render(tick)
	}
}
