package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrescamacho/geflip-go/internal/adapters/api"
	"github.com/andrescamacho/geflip-go/internal/domain/alert"
	"github.com/andrescamacho/geflip-go/internal/domain/ledger"
	"github.com/andrescamacho/geflip-go/internal/domain/limits"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
	"github.com/andrescamacho/geflip-go/internal/domain/watch"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

var badRequestErrors = []error{
	trading.ErrInvalidBudget,
	trading.ErrInvalidFilters,
	trading.ErrUnknownPriceSource,
	trading.ErrUnknownFreshnessPolicy,
	limits.ErrInvalidEventKind,
	limits.ErrInvalidItemID,
	limits.ErrInvalidQuantity,
	watch.ErrInvalidItemID,
	alert.ErrInvalidDirection,
	alert.ErrInvalidTarget,
	market.ErrUnsupportedWindow,
	api.ErrUnsupportedTimestep,
	utils.ErrInvalidGP,
}

// statusFor maps application errors onto HTTP status codes
func statusFor(err error) int {
	var notFound *shared.ItemNotFoundError
	var flipNotFound *ledger.ErrFlipNotFound
	var validation *shared.ValidationError
	var invalidFlip *ledger.ErrInvalidFlip

	switch {
	case errors.As(err, &notFound), errors.As(err, &flipNotFound), errors.Is(err, alert.ErrAlertNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &invalidFlip):
		return http.StatusBadRequest
	case errors.Is(err, market.ErrFeedUnavailable), errors.Is(err, api.ErrCircuitOpen):
		return http.StatusBadGateway
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
