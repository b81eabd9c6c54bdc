package grpc

import (
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/trading/types"
)

// SuggestRequest asks the daemon to run the engine with its warm cache.
// Zero values fall back to the daemon's configured defaults.
type SuggestRequest struct {
	Budget      int64    `json:"budget"`
	Top         int      `json:"top,omitempty"`
	ItemIDs     []int    `json:"item_ids,omitempty"`
	PriceSource string   `json:"price_source,omitempty"`
	MinROI      *float64 `json:"min_roi,omitempty"`
	MinProfit   *int64   `json:"min_profit,omitempty"`
	MinVolume   *int64   `json:"min_volume,omitempty"`
	WithGuide   bool     `json:"with_guide,omitempty"`
}

// SuggestReply carries the ranked suggestions
type SuggestReply struct {
	GeneratedAt time.Time              `json:"generated_at"`
	PriceSource string                 `json:"price_source"`
	LimitSource string                 `json:"limit_source,omitempty"`
	Scanned     int                    `json:"scanned"`
	Suggestions []*types.SuggestionDTO `json:"suggestions"`
}

type emptyRequest struct{}
