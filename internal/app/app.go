// Package app wires configuration, adapters and application services into a
// ready-to-use mediator for the CLI and the daemon.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gorm.io/gorm"

	"github.com/andrescamacho/geflip-go/internal/adapters/api"
	"github.com/andrescamacho/geflip-go/internal/adapters/cache"
	"github.com/andrescamacho/geflip-go/internal/adapters/limitlog"
	"github.com/andrescamacho/geflip-go/internal/adapters/metrics"
	"github.com/andrescamacho/geflip-go/internal/adapters/persistence"
	alertServices "github.com/andrescamacho/geflip-go/internal/application/alert/services"
	limitsCommands "github.com/andrescamacho/geflip-go/internal/application/limits/commands"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/application/setup"
	tradingServices "github.com/andrescamacho/geflip-go/internal/application/trading/services"
	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/database"
)

// App holds the wired object graph
type App struct {
	Config *config.Config
	Clock  shared.Clock
	DB     *gorm.DB

	Feed       market.PriceFeed
	Timeseries market.TimeseriesProvider
	FeedCache  *cache.CachingPriceFeed
	Guide      market.GuidePriceProvider

	Sources  []limits.AllowanceSource
	Recorder limitsCommands.EventRecorder

	Suggestions  *tradingServices.SuggestionService
	Alerts       *persistence.GormAlertRepository
	Watchlist    *persistence.GormWatchlistRepository
	Flips        *persistence.GormFlipRepository
	AlertChecker *alertServices.AlertChecker
	Filters      trading.Filters

	Mediator mediator.Mediator

	closers []io.Closer
}

type options struct {
	feed       market.PriceFeed
	timeseries market.TimeseriesProvider
	guide      market.GuidePriceProvider
	db         *gorm.DB
	clock      shared.Clock
}

// Option overrides a collaborator, mostly for tests
type Option func(*options)

// WithFeed replaces the wiki feed. If feed also implements TimeseriesProvider
// or GuidePriceProvider it serves those too.
func WithFeed(feed market.PriceFeed) Option {
	return func(o *options) {
		o.feed = feed
		if ts, ok := feed.(market.TimeseriesProvider); ok {
			o.timeseries = ts
		}
		if g, ok := feed.(market.GuidePriceProvider); ok {
			o.guide = g
		}
	}
}

// WithDB uses an existing connection instead of opening one from config
func WithDB(db *gorm.DB) Option {
	return func(o *options) { o.db = db }
}

// WithClock overrides the real clock
func WithClock(clock shared.Clock) Option {
	return func(o *options) { o.clock = clock }
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// New builds the application from cfg
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{Config: cfg, Clock: shared.OrRealClock(o.clock)}

	filters, err := FiltersFromConfig(cfg.Suggest)
	if err != nil {
		return nil, err
	}
	a.Filters = filters

	if o.db != nil {
		a.DB = o.db
	} else {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DB = db
		a.closers = append(a.closers, closerFunc(func() error { return database.Close(db) }))
	}

	inner := o.feed
	a.Timeseries = o.timeseries
	a.Guide = o.guide
	if inner == nil {
		wiki := api.NewWikiClient(cfg.Wiki, a.Clock)
		inner = wiki
		a.Timeseries = wiki
		a.Guide = api.NewGuidePriceClient(cfg.Guide)
	}

	store, err := cache.NewStore(ctx, cfg.Cache, a.Clock)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	a.FeedCache = cache.NewCachingPriceFeed(inner, store, cfg.Cache.CatalogTTL, cfg.Cache.PricesTTL)
	a.Feed = a.FeedCache

	a.Sources, a.Recorder = limitSources(cfg.Limits, a.DB, a.Clock)

	a.Suggestions = tradingServices.NewSuggestionService(
		a.Feed, a.Guide, a.Sources, cfg.Limits.Window, cfg.Guide.Concurrency, a.Clock,
	)
	a.Alerts = persistence.NewGormAlertRepository(a.DB)
	a.Watchlist = persistence.NewGormWatchlistRepository(a.DB)
	a.Flips = persistence.NewGormFlipRepository(a.DB)
	a.AlertChecker = alertServices.NewAlertChecker(a.Alerts, a.Feed, a.Clock)

	registry := &setup.HandlerRegistry{
		Suggestions:    a.Suggestions,
		Timeseries:     a.Timeseries,
		Recorder:       a.Recorder,
		AlertRepo:      a.Alerts,
		AlertChecker:   a.AlertChecker,
		WatchRepo:      a.Watchlist,
		FlipRepo:       a.Flips,
		DefaultFilters: a.Filters,
		DefaultTop:     cfg.Suggest.Top,
		Clock:          a.Clock,
	}
	if metrics.IsEnabled() {
		collector := metrics.NewCommandMetricsCollector()
		if err := collector.Register(); err != nil {
			slog.Warn("mediator metrics unavailable", "error", err)
		} else {
			registry.Middleware = append(registry.Middleware, metrics.PrometheusMiddleware(collector))
		}
	}

	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}
	a.Mediator = m
	return a, nil
}

// Close releases the database and cache connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// limitSources returns allowance sources in priority order and the recorder
// that `record` appends to.
func limitSources(cfg config.LimitsConfig, db *gorm.DB, clock shared.Clock) ([]limits.AllowanceSource, limitsCommands.EventRecorder) {
	var local interface {
		limits.AllowanceSource
		limitsCommands.EventRecorder
	}
	if cfg.UseDatabase || cfg.Source == "database" {
		local = persistence.NewGormPurchaseEventRepository(db, clock)
	} else {
		local = limitlog.NewJSONEventLog(cfg.LocalPath, clock)
	}

	switch cfg.Source {
	case "none":
		return nil, local
	case "flipper2":
		return []limits.AllowanceSource{limitlog.NewFlipper2Source(limitlog.DiscoverFlipper2Dir(cfg.Flipper2Path))}, local
	case "local", "database":
		return []limits.AllowanceSource{local}, local
	default:
		return []limits.AllowanceSource{
			limitlog.NewFlipper2Source(limitlog.DiscoverFlipper2Dir(cfg.Flipper2Path)),
			local,
		}, local
	}
}

// FiltersFromConfig converts the suggest section into engine filters
func FiltersFromConfig(cfg config.SuggestConfig) (trading.Filters, error) {
	source, err := trading.ParsePriceSource(cfg.PriceSource)
	if err != nil {
		return trading.Filters{}, err
	}
	policy, err := trading.ParseFreshnessPolicy(cfg.FreshPolicy)
	if err != nil {
		return trading.Filters{}, err
	}
	f := trading.Filters{
		MinUnitROI:          cfg.MinROI,
		MinUnitProfit:       cfg.MinProfit,
		MinHourlyVolume:     cfg.MinHourlyVolume,
		MaxFillHours:        cfg.MaxFillHours,
		FreshMinutes:        cfg.FreshMinutes,
		FreshPolicy:         policy,
		PriceSource:         source,
		LatestMaxAgeMinutes: cfg.LatestMaxAgeMinutes,
		Aggressiveness:      cfg.Aggressiveness,
		LiquidityFraction:   cfg.LiquidityFraction,
	}
	return f, f.Validate()
}

// WatchFilters derives the watch selection filters: suggest defaults with the
// watch section's volume floor and freshness policy.
func WatchFilters(base trading.Filters, cfg config.WatchConfig) (trading.Filters, error) {
	policy, err := trading.ParseFreshnessPolicy(cfg.FreshPolicy)
	if err != nil {
		return trading.Filters{}, err
	}
	base.MinHourlyVolume = cfg.MinHourlyVolume
	base.FreshPolicy = policy
	return base, nil
}
