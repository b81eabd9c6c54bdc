package alert

import (
	"fmt"
	"strings"
)

// Direction says which side of the target price triggers an alert
type Direction string

const (
	// DirectionBelow triggers when the price falls to or under the target
	DirectionBelow Direction = "below"

	// DirectionAbove triggers when the price rises to or over the target
	DirectionAbove Direction = "above"
)

func (d Direction) String() string {
	return string(d)
}

// IsValid checks if the direction is supported
func (d Direction) IsValid() bool {
	return d == DirectionBelow || d == DirectionAbove
}

// ParseDirection parses a string into a Direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q (must be 'below' or 'above')", ErrInvalidDirection, s)
	}
	return d, nil
}

// Crossed reports whether price satisfies the direction against target
func (d Direction) Crossed(price, target int64) bool {
	switch d {
	case DirectionBelow:
		return price <= target
	case DirectionAbove:
		return price >= target
	default:
		return false
	}
}
