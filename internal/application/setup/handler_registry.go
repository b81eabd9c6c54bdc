package setup

import (
	alertCommands "github.com/andrescamacho/geflip-go/internal/application/alert/commands"
	alertQueries "github.com/andrescamacho/geflip-go/internal/application/alert/queries"
	alertServices "github.com/andrescamacho/geflip-go/internal/application/alert/services"
	"github.com/andrescamacho/geflip-go/internal/application/common"
	ledgerCommands "github.com/andrescamacho/geflip-go/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/geflip-go/internal/application/ledger/queries"
	limitsCommands "github.com/andrescamacho/geflip-go/internal/application/limits/commands"
	limitsQueries "github.com/andrescamacho/geflip-go/internal/application/limits/queries"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	tradingQueries "github.com/andrescamacho/geflip-go/internal/application/trading/queries"
	tradingServices "github.com/andrescamacho/geflip-go/internal/application/trading/services"
	watchCommands "github.com/andrescamacho/geflip-go/internal/application/watch/commands"
	watchQueries "github.com/andrescamacho/geflip-go/internal/application/watch/queries"
	"github.com/andrescamacho/geflip-go/internal/domain/alert"
	"github.com/andrescamacho/geflip-go/internal/domain/ledger"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
	"github.com/andrescamacho/geflip-go/internal/domain/watch"
)

// HandlerRegistry holds all application dependencies for handler creation.
// Optional dependencies left nil skip the handlers that need them.
type HandlerRegistry struct {
	Suggestions    *tradingServices.SuggestionService
	Timeseries     market.TimeseriesProvider
	Recorder       limitsCommands.EventRecorder
	AlertRepo      alert.AlertRepository
	AlertChecker   *alertServices.AlertChecker
	WatchRepo      watch.WatchlistRepository
	FlipRepo       ledger.FlipRepository
	DefaultFilters trading.Filters
	DefaultTop     int
	Clock          shared.Clock

	// Middleware is applied in order after the logging middleware
	Middleware []mediator.Middleware
}

// RegisterTradingHandlers registers suggestion, item and timeseries queries
func (r *HandlerRegistry) RegisterTradingHandlers(m mediator.Mediator) error {
	feed := r.Suggestions.Feed()

	if err := mediator.RegisterHandler[*tradingQueries.GenerateSuggestionsQuery](m,
		tradingQueries.NewGenerateSuggestionsHandler(r.Suggestions, r.DefaultFilters, r.DefaultTop)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*tradingQueries.SearchItemsQuery](m, tradingQueries.NewSearchItemsHandler(feed)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*tradingQueries.GetItemQuery](m, tradingQueries.NewGetItemHandler(feed)); err != nil {
		return err
	}
	if r.Timeseries != nil {
		if err := mediator.RegisterHandler[*tradingQueries.GetTimeseriesQuery](m, tradingQueries.NewGetTimeseriesHandler(r.Timeseries)); err != nil {
			return err
		}
	}
	return nil
}

// RegisterLimitsHandlers registers purchase recording and the remaining-limit report
func (r *HandlerRegistry) RegisterLimitsHandlers(m mediator.Mediator) error {
	if r.Recorder != nil {
		if err := mediator.RegisterHandler[*limitsCommands.RecordPurchaseCommand](m,
			limitsCommands.NewRecordPurchaseHandler(r.Recorder, r.Clock)); err != nil {
			return err
		}
	}
	return mediator.RegisterHandler[*limitsQueries.GetRemainingLimitsQuery](m,
		limitsQueries.NewGetRemainingLimitsHandler(r.Suggestions))
}

// RegisterAlertHandlers registers alert commands and queries
func (r *HandlerRegistry) RegisterAlertHandlers(m mediator.Mediator) error {
	if err := mediator.RegisterHandler[*alertCommands.CreateAlertCommand](m, alertCommands.NewCreateAlertHandler(r.AlertRepo, r.Clock)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*alertCommands.DeleteAlertCommand](m, alertCommands.NewDeleteAlertHandler(r.AlertRepo)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*alertQueries.ListAlertsQuery](m, alertQueries.NewListAlertsHandler(r.AlertRepo)); err != nil {
		return err
	}
	checker := r.AlertChecker
	if checker == nil {
		checker = alertServices.NewAlertChecker(r.AlertRepo, r.Suggestions.Feed(), r.Clock)
	}
	return mediator.RegisterHandler[*alertCommands.CheckAlertsCommand](m, alertCommands.NewCheckAlertsHandler(checker))
}

// RegisterWatchHandlers registers watchlist commands and queries
func (r *HandlerRegistry) RegisterWatchHandlers(m mediator.Mediator) error {
	if err := mediator.RegisterHandler[*watchCommands.AddWatchCommand](m, watchCommands.NewAddWatchHandler(r.WatchRepo, r.Clock)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*watchCommands.RemoveWatchCommand](m, watchCommands.NewRemoveWatchHandler(r.WatchRepo)); err != nil {
		return err
	}
	return mediator.RegisterHandler[*watchQueries.ListWatchlistQuery](m,
		watchQueries.NewListWatchlistHandler(r.WatchRepo, r.Suggestions.Feed()))
}

// RegisterLedgerHandlers registers flip log commands and queries
func (r *HandlerRegistry) RegisterLedgerHandlers(m mediator.Mediator) error {
	if err := mediator.RegisterHandler[*ledgerCommands.LogFlipCommand](m,
		ledgerCommands.NewLogFlipHandler(r.FlipRepo, r.Suggestions.Feed(), r.Clock)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*ledgerQueries.ListFlipsQuery](m, ledgerQueries.NewListFlipsHandler(r.FlipRepo)); err != nil {
		return err
	}
	return mediator.RegisterHandler[*ledgerQueries.GetFlipSummaryQuery](m, ledgerQueries.NewGetFlipSummaryHandler(r.FlipRepo))
}

// CreateConfiguredMediator creates a mediator with every available handler registered
func (r *HandlerRegistry) CreateConfiguredMediator() (mediator.Mediator, error) {
	m := mediator.NewMediator()
	m.Use(common.LoggingMiddleware())
	for _, mw := range r.Middleware {
		m.Use(mw)
	}

	if err := r.RegisterTradingHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterLimitsHandlers(m); err != nil {
		return nil, err
	}
	if r.AlertRepo != nil {
		if err := r.RegisterAlertHandlers(m); err != nil {
			return nil, err
		}
	}
	if r.WatchRepo != nil {
		if err := r.RegisterWatchHandlers(m); err != nil {
			return nil, err
		}
	}
	if r.FlipRepo != nil {
		if err := r.RegisterLedgerHandlers(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}
