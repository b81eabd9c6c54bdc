package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/geflip-go/internal/adapters/metrics"
	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
)

const defaultGuideConcurrency = 4

// MarketState is one consistent view of the market used for a suggestion pass.
// Now is read once when the state is loaded.
type MarketState struct {
	Catalog   market.Catalog
	Snapshot  market.Snapshot
	Remaining limits.Allowance
	// LimitSource names the allowance source used, empty when none was available
	LimitSource string
	Now         time.Time
}

// SuggestParams configures one engine pass over a loaded MarketState
type SuggestParams struct {
	Budget    int64
	Filters   trading.Filters
	TopN      int
	Universe  []int
	WithGuide bool
}

// SuggestionService loads market data and runs the suggestion engine over it
type SuggestionService struct {
	feed             market.PriceFeed
	guide            market.GuidePriceProvider
	sources          []limits.AllowanceSource
	window           time.Duration
	guideConcurrency int
	engine           *trading.SuggestionEngine
	clock            shared.Clock
}

// NewSuggestionService creates a service.
//
// sources are tried in priority order on every load; guide may be nil when
// guide-price enrichment is not configured.
func NewSuggestionService(
	feed market.PriceFeed,
	guide market.GuidePriceProvider,
	sources []limits.AllowanceSource,
	window time.Duration,
	guideConcurrency int,
	clock shared.Clock,
) *SuggestionService {
	if window <= 0 {
		window = limits.DefaultWindow
	}
	if guideConcurrency <= 0 {
		guideConcurrency = defaultGuideConcurrency
	}
	return &SuggestionService{
		feed:             feed,
		guide:            guide,
		sources:          sources,
		window:           window,
		guideConcurrency: guideConcurrency,
		engine:           trading.NewSuggestionEngine(),
		clock:            shared.OrRealClock(clock),
	}
}

// Feed exposes the underlying price feed
func (s *SuggestionService) Feed() market.PriceFeed {
	return s.feed
}

// LoadMarket fetches the catalog and both snapshots concurrently, then resolves
// remaining allowances from the first available source.
func (s *SuggestionService) LoadMarket(ctx context.Context) (*MarketState, error) {
	state := &MarketState{Now: s.clock.Now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		catalog, err := s.feed.FetchCatalog(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch catalog: %w", err)
		}
		state.Catalog = catalog
		return nil
	})
	g.Go(func() error {
		latest, err := s.feed.FetchLatest(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch latest prices: %w", err)
		}
		state.Snapshot.Latest = latest
		return nil
	})
	g.Go(func() error {
		windowed, err := s.feed.FetchWindowed(gctx, market.Window1h)
		if err != nil {
			return fmt.Errorf("failed to fetch 1h prices: %w", err)
		}
		state.Snapshot.Windowed = windowed
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	remaining, name, err := s.RemainingLimits(ctx, state.Catalog, state.Now)
	if err != nil {
		return nil, err
	}
	state.Remaining = remaining
	state.LimitSource = name
	return state, nil
}

// RemainingLimits computes allowances from the first available source.
// A nil allowance and empty name mean no source is available.
func (s *SuggestionService) RemainingLimits(ctx context.Context, catalog market.Catalog, now time.Time) (limits.Allowance, string, error) {
	src := limits.SelectSource(s.sources...)
	if src == nil {
		return nil, "", nil
	}
	remaining, err := src.Remaining(ctx, catalog.BuyLimits(), now, s.window)
	if err != nil {
		return nil, "", fmt.Errorf("failed to compute remaining limits from %s: %w", src.Name(), err)
	}
	return remaining, src.Name(), nil
}

// Window returns the accounting window in use
func (s *SuggestionService) Window() time.Duration {
	return s.window
}

// Suggest runs the engine over an already loaded state
func (s *SuggestionService) Suggest(ctx context.Context, state *MarketState, params SuggestParams) ([]*trading.Suggestion, error) {
	start := time.Now()
	suggestions, err := s.engine.Generate(trading.SuggestionRequest{
		Budget:    params.Budget,
		Catalog:   state.Catalog,
		Snapshot:  state.Snapshot,
		Filters:   params.Filters,
		Remaining: state.Remaining,
		TopN:      params.TopN,
		Universe:  params.Universe,
		Now:       state.Now,
	})

	best := 0.0
	if len(suggestions) > 0 {
		best = suggestions[0].ProfitPerHour()
	}
	metrics.RecordSuggestionRun(params.Filters.PriceSource.String(), time.Since(start).Seconds(), len(suggestions), best, err)
	if err != nil {
		return nil, err
	}

	if params.WithGuide {
		s.EnrichGuidePrices(ctx, suggestions)
	}
	return suggestions, nil
}

// Generate loads the market and runs one engine pass
func (s *SuggestionService) Generate(ctx context.Context, params SuggestParams) ([]*trading.Suggestion, *MarketState, error) {
	state, err := s.LoadMarket(ctx)
	if err != nil {
		return nil, nil, err
	}
	suggestions, err := s.Suggest(ctx, state, params)
	if err != nil {
		return nil, nil, err
	}
	return suggestions, state, nil
}

// EnrichGuidePrices attaches the official guide price to each suggestion.
// Lookups run with bounded concurrency; a failed lookup leaves the price absent.
func (s *SuggestionService) EnrichGuidePrices(ctx context.Context, suggestions []*trading.Suggestion) {
	if s.guide == nil || len(suggestions) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(s.guideConcurrency)
	for _, sug := range suggestions {
		g.Go(func() error {
			price, err := s.guide.GuidePrice(ctx, sug.ItemID())
			if err != nil {
				slog.Debug("guide price lookup failed", "item_id", sug.ItemID(), "error", err)
				return nil
			}
			sug.SetGuidePrice(price)
			return nil
		})
	}
	_ = g.Wait()
}

// Now reads the service clock
func (s *SuggestionService) Now() time.Time {
	return s.clock.Now()
}
