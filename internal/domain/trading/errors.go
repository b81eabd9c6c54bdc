package trading

import "errors"

var (
	// ErrInvalidBudget indicates a negative budget was supplied to the engine
	ErrInvalidBudget = errors.New("budget must be non-negative")

	// ErrInvalidFilters indicates a filter value is out of range or unknown
	ErrInvalidFilters = errors.New("invalid suggestion filters")

	// ErrUnknownPriceSource indicates a price source name that is not latest, 1h or hybrid
	ErrUnknownPriceSource = errors.New("unknown price source")

	// ErrUnknownFreshnessPolicy indicates a freshness policy other than any or both
	ErrUnknownFreshnessPolicy = errors.New("unknown freshness policy")
)
