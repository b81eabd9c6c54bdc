package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	alertCommands "github.com/andrescamacho/geflip-go/internal/application/alert/commands"
	alertQueries "github.com/andrescamacho/geflip-go/internal/application/alert/queries"
	"github.com/andrescamacho/geflip-go/internal/application/alert/types"
)

// CreateAlertRequest is the body of POST /api/v1/alerts
type CreateAlertRequest struct {
	ItemID      int    `json:"item_id" binding:"required,gt=0"`
	Direction   string `json:"direction" binding:"required,oneof=below above"`
	TargetPrice int64  `json:"target_price" binding:"required,gt=0"`
}

// CheckAlertsResponse is the body of POST /api/v1/alerts/check
type CheckAlertsResponse struct {
	Checked   int               `json:"checked"`
	Triggered []*types.AlertDTO `json:"triggered"`
}

// GET /api/v1/alerts?active=true
func (s *Server) listAlerts(c *gin.Context) {
	resp, err := s.mediator.Send(c.Request.Context(), &alertQueries.ListAlertsQuery{
		ActiveOnly: c.Query("active") == "true",
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	alerts := resp.(*alertQueries.ListAlertsResponse).Alerts
	if alerts == nil {
		alerts = []*types.AlertDTO{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (s *Server) createAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.mediator.Send(c.Request.Context(), &alertCommands.CreateAlertCommand{
		ItemID:      req.ItemID,
		Direction:   req.Direction,
		TargetPrice: req.TargetPrice,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.(*alertCommands.CreateAlertResponse).Alert)
}

func (s *Server) deleteAlert(c *gin.Context) {
	if _, err := s.mediator.Send(c.Request.Context(), &alertCommands.DeleteAlertCommand{AlertID: c.Param("id")}); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) checkAlerts(c *gin.Context) {
	resp, err := s.mediator.Send(c.Request.Context(), &alertCommands.CheckAlertsCommand{})
	if err != nil {
		abortWithError(c, err)
		return
	}
	r := resp.(*alertCommands.CheckAlertsResponse)
	triggered := r.Triggered
	if triggered == nil {
		triggered = []*types.AlertDTO{}
	}
	c.JSON(http.StatusOK, CheckAlertsResponse{Checked: r.Checked, Triggered: triggered})
}
