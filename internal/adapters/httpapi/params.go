package httpapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
)

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, shared.NewValidationError("id", fmt.Sprintf("%q is not a positive integer", c.Param("id")))
	}
	return id, nil
}

// parseIDs reads a comma separated id list such as "2,560,1515"
func parseIDs(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, shared.NewValidationError("ids", fmt.Sprintf("%q is not a positive integer", part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.NewValidationError(key, "must be an integer")
	}
	return n, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates
func queryTime(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, shared.NewValidationError(key, "must be RFC 3339 or YYYY-MM-DD")
}

// filtersFromQuery applies per-request overrides on top of the configured filters.
// It returns nil when nothing was overridden so handlers keep their defaults.
func (s *Server) filtersFromQuery(c *gin.Context) (*trading.Filters, error) {
	f := s.filters
	changed := false

	if raw := c.Query("price_source"); raw != "" {
		source, err := trading.ParsePriceSource(raw)
		if err != nil {
			return nil, err
		}
		f.PriceSource = source
		changed = true
	}
	if raw := c.Query("fresh_policy"); raw != "" {
		policy, err := trading.ParseFreshnessPolicy(raw)
		if err != nil {
			return nil, err
		}
		f.FreshPolicy = policy
		changed = true
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"min_roi", &f.MinUnitROI},
		{"aggressiveness", &f.Aggressiveness},
		{"max_fill_hours", &f.MaxFillHours},
	}
	for _, p := range floats {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, shared.NewValidationError(p.key, "must be a number")
		}
		*p.dst = v
		changed = true
	}
	ints := []struct {
		key string
		dst *int64
	}{
		{"min_profit", &f.MinUnitProfit},
		{"min_volume", &f.MinHourlyVolume},
	}
	for _, p := range ints {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, shared.NewValidationError(p.key, "must be an integer")
		}
		*p.dst = v
		changed = true
	}

	if !changed {
		return nil, nil
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}
