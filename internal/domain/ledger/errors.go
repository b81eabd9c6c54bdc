package ledger

import "fmt"

// ErrInvalidFlip represents validation errors for flips
type ErrInvalidFlip struct {
	Field  string
	Reason string
}

func (e *ErrInvalidFlip) Error() string {
	return fmt.Sprintf("invalid flip: %s - %s", e.Field, e.Reason)
}

// ErrFlipNotFound represents errors when a flip cannot be found
type ErrFlipNotFound struct {
	ID string
}

func (e *ErrFlipNotFound) Error() string {
	return fmt.Sprintf("flip not found: id=%s", e.ID)
}
