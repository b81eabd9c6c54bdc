package watch

// Trend is the direction a value moved between two refreshes
type Trend int

const (
	TrendNew Trend = iota // no previous value
	TrendFlat
	TrendUp
	TrendDown
)

// Arrow renders the trend as a single glyph; new and flat values have none
func (t Trend) Arrow() string {
	switch t {
	case TrendUp:
		return "▲"
	case TrendDown:
		return "▼"
	default:
		return ""
	}
}

// Change compares a value with its previous reading.
// Good reports whether the move is favourable given which direction is better.
type Change struct {
	Delta float64
	Trend Trend
	Good  bool
}

// Compare builds a Change. previous nil yields TrendNew.
func Compare(current float64, previous *float64, higherIsBetter bool) Change {
	if previous == nil {
		return Change{Trend: TrendNew}
	}
	delta := current - *previous
	switch {
	case delta == 0:
		return Change{Trend: TrendFlat}
	case delta > 0:
		return Change{Delta: delta, Trend: TrendUp, Good: higherIsBetter}
	default:
		return Change{Delta: delta, Trend: TrendDown, Good: !higherIsBetter}
	}
}
