package market

import "errors"

var (
	// ErrFeedUnavailable indicates a price feed could not be retrieved
	ErrFeedUnavailable = errors.New("price feed unavailable")

	// ErrUnsupportedWindow indicates a windowed feed was requested for an unknown window
	ErrUnsupportedWindow = errors.New("unsupported price window")
)

// Windows supported by the windowed feed
const (
	Window5m = "5m"
	Window1h = "1h"
)
