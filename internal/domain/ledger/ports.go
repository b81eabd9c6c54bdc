package ledger

import (
	"context"
	"time"
)

// FlipRepository defines persistence operations for the flip log
type FlipRepository interface {
	// Create persists a new flip
	Create(ctx context.Context, flip *Flip) error

	// FindByID retrieves a flip by its ID
	FindByID(ctx context.Context, id FlipID) (*Flip, error)

	// Find retrieves flips with optional filtering
	Find(ctx context.Context, opts QueryOptions) ([]*Flip, error)
}

// QueryOptions defines filtering and pagination options for flip queries
type QueryOptions struct {
	// Sale date range filtering
	StartDate *time.Time
	EndDate   *time.Time

	ItemID *int

	// Pagination
	Limit  int
	Offset int

	// Sorting
	OrderBy string // "sold_at ASC" or "sold_at DESC" (default DESC)
}

// DefaultQueryOptions returns default query options
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		Limit:   50,
		OrderBy: "sold_at DESC",
	}
}

// Summary aggregates a set of flips
type Summary struct {
	Count       int
	TotalCost   int64
	TotalProfit int64
}

// Summarize totals the given flips
func Summarize(flips []*Flip) Summary {
	s := Summary{Count: len(flips)}
	for _, f := range flips {
		s.TotalCost += f.Cost()
		s.TotalProfit += f.Profit()
	}
	return s
}

// ROI returns total profit over total cost, or zero when nothing was spent
func (s Summary) ROI() float64 {
	if s.TotalCost == 0 {
		return 0
	}
	return float64(s.TotalProfit) / float64(s.TotalCost)
}
