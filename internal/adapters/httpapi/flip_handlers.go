package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ledgerCommands "github.com/andrescamacho/geflip-go/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/geflip-go/internal/application/ledger/queries"
	"github.com/andrescamacho/geflip-go/internal/application/ledger/types"
)

// LogFlipRequest is the body of POST /api/v1/flips
type LogFlipRequest struct {
	ItemID    int        `json:"item_id" binding:"required,gt=0"`
	Quantity  int64      `json:"quantity" binding:"required,gt=0"`
	BuyPrice  int64      `json:"buy_price" binding:"required,gt=0"`
	SellPrice int64      `json:"sell_price" binding:"required,gt=0"`
	BoughtAt  *time.Time `json:"bought_at"`
	SoldAt    *time.Time `json:"sold_at"`
	Note      string     `json:"note"`
}

// GET /api/v1/flips?from=2024-01-01&to=2024-02-01&item_id=2&limit=50&offset=0
func (s *Server) listFlips(c *gin.Context) {
	from, err := queryTime(c, "from")
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := queryTime(c, "to")
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		badRequest(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		badRequest(c, err)
		return
	}
	query := &ledgerQueries.ListFlipsQuery{StartDate: from, EndDate: to, Limit: limit, Offset: offset}
	if c.Query("item_id") != "" {
		itemID, err := queryInt(c, "item_id")
		if err != nil {
			badRequest(c, err)
			return
		}
		query.ItemID = &itemID
	}

	resp, err := s.mediator.Send(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}
	flips := resp.(*ledgerQueries.ListFlipsResponse).Flips
	if flips == nil {
		flips = []*types.FlipDTO{}
	}
	c.JSON(http.StatusOK, gin.H{"flips": flips})
}

func (s *Server) logFlip(c *gin.Context) {
	var req LogFlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.mediator.Send(c.Request.Context(), &ledgerCommands.LogFlipCommand{
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
		BuyPrice:  req.BuyPrice,
		SellPrice: req.SellPrice,
		BoughtAt:  req.BoughtAt,
		SoldAt:    req.SoldAt,
		Note:      req.Note,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.(*ledgerCommands.LogFlipResponse).Flip)
}

// GET /api/v1/flips/summary?from=2024-01-01
func (s *Server) flipSummary(c *gin.Context) {
	from, err := queryTime(c, "from")
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := queryTime(c, "to")
	if err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.mediator.Send(c.Request.Context(), &ledgerQueries.GetFlipSummaryQuery{StartDate: from, EndDate: to})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.(*ledgerQueries.GetFlipSummaryResponse))
}
