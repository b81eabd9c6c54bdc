package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/common"
	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	"github.com/andrescamacho/geflip-go/internal/application/trading/services"
	"github.com/andrescamacho/geflip-go/internal/application/trading/types"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
)

// GenerateSuggestionsQuery requests a ranked list of flips for a budget
type GenerateSuggestionsQuery struct {
	Budget int64
	// Filters nil means the handler's configured defaults
	Filters *trading.Filters
	TopN    int   // default from configuration when <= 0
	ItemIDs []int // restricts the universe when non-empty
	// WithGuide attaches the official guide price to each suggestion
	WithGuide bool
}

// GenerateSuggestionsResponse contains the ranked suggestions
type GenerateSuggestionsResponse struct {
	Suggestions []*types.SuggestionDTO
	PriceSource string
	LimitSource string // empty when purchase limits are not tracked
	GeneratedAt time.Time
	Scanned     int
}

// GenerateSuggestionsHandler handles suggestion queries
type GenerateSuggestionsHandler struct {
	service  *services.SuggestionService
	defaults trading.Filters
	topN     int
}

// NewGenerateSuggestionsHandler creates a new handler
func NewGenerateSuggestionsHandler(
	service *services.SuggestionService,
	defaults trading.Filters,
	topN int,
) *GenerateSuggestionsHandler {
	if topN <= 0 {
		topN = 10
	}
	return &GenerateSuggestionsHandler{
		service:  service,
		defaults: defaults,
		topN:     topN,
	}
}

// Handle executes the query
func (h *GenerateSuggestionsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GenerateSuggestionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GenerateSuggestionsQuery")
	}

	filters := h.defaults
	if query.Filters != nil {
		filters = *query.Filters
	}
	topN := query.TopN
	if topN <= 0 {
		topN = h.topN
	}

	suggestions, state, err := h.service.Generate(ctx, services.SuggestParams{
		Budget:    query.Budget,
		Filters:   filters,
		TopN:      topN,
		Universe:  query.ItemIDs,
		WithGuide: query.WithGuide,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}

	common.LoggerFromContext(ctx).Debug("suggestions generated",
		"count", len(suggestions),
		"price_source", filters.PriceSource,
		"limit_source", state.LimitSource,
	)

	return &GenerateSuggestionsResponse{
		Suggestions: types.ToSuggestionDTOs(suggestions),
		PriceSource: filters.PriceSource.String(),
		LimitSource: state.LimitSource,
		GeneratedAt: state.Now,
		Scanned:     len(state.Snapshot.ItemIDs()),
	}, nil
}
