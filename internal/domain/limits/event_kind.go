package limits

import (
	"fmt"
	"strings"
)

// EventKind is the side of a recorded purchase event
type EventKind string

const (
	// EventKindBuy counts towards the purchase cap
	EventKindBuy EventKind = "buy"

	// EventKindSell is recorded for completeness and never consumes allowance
	EventKindSell EventKind = "sell"
)

// String returns the string representation of the EventKind
func (k EventKind) String() string {
	return string(k)
}

// IsValid checks if the event kind is buy or sell
func (k EventKind) IsValid() bool {
	switch k {
	case EventKindBuy, EventKindSell:
		return true
	default:
		return false
	}
}

// ParseEventKind parses a string into an EventKind
func ParseEventKind(s string) (EventKind, error) {
	k := EventKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q (must be 'buy' or 'sell')", ErrInvalidEventKind, s)
	}
	return k, nil
}
