package trading

import (
	"fmt"
	"strings"
)

// Filters holds the hard-exclude thresholds and dials for one engine invocation
type Filters struct {
	MinUnitROI          float64
	MinUnitProfit       int64
	MinHourlyVolume     int64
	MaxFillHours        float64
	FreshMinutes        float64
	FreshPolicy         FreshnessPolicy
	PriceSource         PriceSource
	LatestMaxAgeMinutes float64
	Aggressiveness      float64
	LiquidityFraction   float64
}

// DefaultFilters returns the filter set used by the suggest command
func DefaultFilters() Filters {
	return Filters{
		MinUnitROI:          0.005,
		MinUnitProfit:       100,
		MinHourlyVolume:     500,
		MaxFillHours:        1.5,
		FreshMinutes:        10,
		FreshPolicy:         FreshnessBoth,
		PriceSource:         PriceSourceLatest,
		LatestMaxAgeMinutes: 20,
		Aggressiveness:      0.3,
		LiquidityFraction:   0.25,
	}
}

// Loosened returns a copy of f suited to refreshing items that are already
// being watched: no profit floors, no volume floor and a long fill horizon.
func (f Filters) Loosened() Filters {
	f.MinUnitROI = 0
	f.MinUnitProfit = 0
	f.MinHourlyVolume = 0
	f.MaxFillHours = 10
	return f
}

// Validate rejects filter values that make the pipeline meaningless
func (f Filters) Validate() error {
	var problems []string

	if f.MinHourlyVolume < 0 {
		problems = append(problems, "min hourly volume must be non-negative")
	}
	if f.MaxFillHours < 0 {
		problems = append(problems, "max fill hours must be non-negative")
	}
	if f.FreshMinutes < 0 {
		problems = append(problems, "fresh minutes must be non-negative")
	}
	if f.LatestMaxAgeMinutes < 0 {
		problems = append(problems, "latest max age must be non-negative")
	}
	if f.Aggressiveness < 0 || f.Aggressiveness > 1 {
		problems = append(problems, fmt.Sprintf("aggressiveness %.2f outside [0,1]", f.Aggressiveness))
	}
	if f.LiquidityFraction < 0 || f.LiquidityFraction > 1 {
		problems = append(problems, fmt.Sprintf("liquidity fraction %.2f outside [0,1]", f.LiquidityFraction))
	}
	if !f.FreshPolicy.IsValid() {
		problems = append(problems, fmt.Sprintf("fresh policy %q must be 'any' or 'both'", f.FreshPolicy))
	}
	if !f.PriceSource.IsValid() {
		problems = append(problems, fmt.Sprintf("price source %q must be latest, 1h or hybrid", f.PriceSource))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFilters, strings.Join(problems, "; "))
	}
	return nil
}
