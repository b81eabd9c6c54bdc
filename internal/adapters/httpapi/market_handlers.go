package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	limitsCommands "github.com/andrescamacho/geflip-go/internal/application/limits/commands"
	limitsQueries "github.com/andrescamacho/geflip-go/internal/application/limits/queries"
	tradingQueries "github.com/andrescamacho/geflip-go/internal/application/trading/queries"
	"github.com/andrescamacho/geflip-go/internal/application/trading/types"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// SuggestionsResponse is the body of GET /api/v1/suggestions
type SuggestionsResponse struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Budget      int64                  `json:"budget"`
	PriceSource string                 `json:"price_source"`
	LimitSource string                 `json:"limit_source,omitempty"`
	Scanned     int                    `json:"scanned"`
	Suggestions []*types.SuggestionDTO `json:"suggestions"`
}

// ItemsResponse is the body of GET /api/v1/items
type ItemsResponse struct {
	Total int              `json:"total"`
	Items []*types.ItemDTO `json:"items"`
}

// TimeseriesResponse is the body of GET /api/v1/items/:id/timeseries
type TimeseriesResponse struct {
	ItemID   int                      `json:"item_id"`
	Timestep string                   `json:"timestep"`
	Points   []market.TimeseriesPoint `json:"points"`
}

// LimitsResponse is the body of GET /api/v1/limits
type LimitsResponse struct {
	Source        string                            `json:"source,omitempty"`
	WindowSeconds int64                             `json:"window_seconds"`
	Items         []limitsQueries.RemainingLimitDTO `json:"items"`
}

// RecordPurchaseRequest is the body of POST /api/v1/limits/events
type RecordPurchaseRequest struct {
	ItemID   int        `json:"item_id" binding:"required,gt=0"`
	Quantity int64      `json:"quantity" binding:"required,gt=0"`
	Kind     string     `json:"kind" binding:"required"`
	At       *time.Time `json:"at"`
}

// PurchaseEventResponse echoes a recorded event
type PurchaseEventResponse struct {
	ItemID    int    `json:"item_id"`
	Quantity  int64  `json:"quantity"`
	Kind      string `json:"kind"`
	Timestamp int64  `json:"timestamp"`
}

// getSuggestions runs the engine.
//
// GET /api/v1/suggestions?budget=50m&top=10&ids=2,560&price_source=hybrid&with_guide=true
func (s *Server) getSuggestions(c *gin.Context) {
	rawBudget := c.Query("budget")
	if rawBudget == "" {
		badRequest(c, shared.NewValidationError("budget", "is required"))
		return
	}
	budget, err := utils.ParseGP(rawBudget)
	if err != nil {
		badRequest(c, err)
		return
	}
	top, err := queryInt(c, "top")
	if err != nil {
		badRequest(c, err)
		return
	}
	ids, err := parseIDs(c.Query("ids"))
	if err != nil {
		badRequest(c, err)
		return
	}
	filters, err := s.filtersFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	resp, err := s.mediator.Send(c.Request.Context(), &tradingQueries.GenerateSuggestionsQuery{
		Budget:    budget,
		Filters:   filters,
		TopN:      top,
		ItemIDs:   ids,
		WithGuide: c.Query("with_guide") == "true",
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	r := resp.(*tradingQueries.GenerateSuggestionsResponse)

	c.JSON(http.StatusOK, SuggestionsResponse{
		GeneratedAt: r.GeneratedAt,
		Budget:      budget,
		PriceSource: r.PriceSource,
		LimitSource: r.LimitSource,
		Scanned:     r.Scanned,
		Suggestions: r.Suggestions,
	})
}

// GET /api/v1/items?q=rune&limit=20
func (s *Server) searchItems(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.mediator.Send(c.Request.Context(), &tradingQueries.SearchItemsQuery{
		Query: c.Query("q"),
		Limit: limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	r := resp.(*tradingQueries.SearchItemsResponse)
	c.JSON(http.StatusOK, ItemsResponse{Total: r.Total, Items: r.Items})
}

func (s *Server) getItem(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.mediator.Send(c.Request.Context(), &tradingQueries.GetItemQuery{ItemID: id})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.(*tradingQueries.GetItemResponse).Item)
}

// GET /api/v1/items/:id/timeseries?timestep=1h
func (s *Server) getTimeseries(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.mediator.Send(c.Request.Context(), &tradingQueries.GetTimeseriesQuery{
		ItemID:   id,
		Timestep: c.Query("timestep"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	r := resp.(*tradingQueries.GetTimeseriesResponse)
	c.JSON(http.StatusOK, TimeseriesResponse{ItemID: r.ItemID, Timestep: r.Timestep, Points: r.Points})
}

// GET /api/v1/limits?ids=2,560
func (s *Server) getLimits(c *gin.Context) {
	ids, err := parseIDs(c.Query("ids"))
	if err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.mediator.Send(c.Request.Context(), &limitsQueries.GetRemainingLimitsQuery{ItemIDs: ids})
	if err != nil {
		abortWithError(c, err)
		return
	}
	r := resp.(*limitsQueries.GetRemainingLimitsResponse)
	items := r.Items
	if items == nil {
		items = []limitsQueries.RemainingLimitDTO{}
	}
	c.JSON(http.StatusOK, LimitsResponse{
		Source:        r.Source,
		WindowSeconds: int64(r.Window / time.Second),
		Items:         items,
	})
}

func (s *Server) recordPurchase(c *gin.Context) {
	var req RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.mediator.Send(c.Request.Context(), &limitsCommands.RecordPurchaseCommand{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Kind:     req.Kind,
		At:       req.At,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	ev := resp.(*limitsCommands.RecordPurchaseResponse).Event
	c.JSON(http.StatusCreated, PurchaseEventResponse{
		ItemID:    ev.ItemID,
		Quantity:  ev.Quantity,
		Kind:      ev.Kind.String(),
		Timestamp: ev.Timestamp,
	})
}
