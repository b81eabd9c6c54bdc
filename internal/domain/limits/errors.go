package limits

import "errors"

var (
	// ErrInvalidEventKind indicates an event kind other than buy or sell
	ErrInvalidEventKind = errors.New("invalid event kind")

	// ErrInvalidItemID indicates a non-positive item id
	ErrInvalidItemID = errors.New("item id must be positive")

	// ErrInvalidQuantity indicates a non-positive quantity
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrSourceUnavailable indicates an allowance source has nothing to read from
	ErrSourceUnavailable = errors.New("allowance source unavailable")
)
