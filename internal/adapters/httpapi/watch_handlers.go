package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	watchCommands "github.com/andrescamacho/geflip-go/internal/application/watch/commands"
	watchQueries "github.com/andrescamacho/geflip-go/internal/application/watch/queries"
)

// AddWatchRequest is the body of POST /api/v1/watchlist
type AddWatchRequest struct {
	ItemIDs []int `json:"item_ids" binding:"required,min=1,dive,gt=0"`
}

func (s *Server) listWatchlist(c *gin.Context) {
	resp, err := s.mediator.Send(c.Request.Context(), &watchQueries.ListWatchlistQuery{})
	if err != nil {
		abortWithError(c, err)
		return
	}
	items := resp.(*watchQueries.ListWatchlistResponse).Items
	if items == nil {
		items = []watchQueries.WatchedItemDTO{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) addWatch(c *gin.Context) {
	var req AddWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.mediator.Send(c.Request.Context(), &watchCommands.AddWatchCommand{ItemIDs: req.ItemIDs})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"watched": resp.(*watchCommands.AddWatchResponse).Watched})
}

func (s *Server) removeWatch(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.mediator.Send(c.Request.Context(), &watchCommands.RemoveWatchCommand{ItemID: id})
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !resp.(*watchCommands.RemoveWatchResponse).Removed {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "item is not on the watchlist"})
		return
	}
	c.Status(http.StatusNoContent)
}

// latestRefresh returns the most recent background refresh of the watchlist
func (s *Server) latestRefresh(c *gin.Context) {
	if s.watch == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "watchlist refresher is not running"})
		return
	}
	latest := s.watch.Latest()
	if latest == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no refresh has completed yet"})
		return
	}
	c.JSON(http.StatusOK, latest)
}

func (s *Server) refreshWatchlist(c *gin.Context) {
	if s.watch == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "watchlist refresher is not running"})
		return
	}
	res, err := s.watch.RefreshOnce(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
