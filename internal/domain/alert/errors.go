package alert

import "errors"

var (
	// ErrInvalidDirection indicates a direction other than below or above
	ErrInvalidDirection = errors.New("invalid alert direction")

	// ErrInvalidTarget indicates a non-positive target price
	ErrInvalidTarget = errors.New("alert target price must be positive")

	// ErrAlertNotFound indicates no alert exists with the given id
	ErrAlertNotFound = errors.New("alert not found")

	// ErrAlreadyTriggered indicates the alert has already fired
	ErrAlreadyTriggered = errors.New("alert already triggered")
)
