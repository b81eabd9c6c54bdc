package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// FlipID is a value object representing a logged flip's unique identifier
type FlipID struct {
	value string
}

// NewFlipID creates a new FlipID with a generated UUID
func NewFlipID() FlipID {
	return FlipID{value: uuid.New().String()}
}

// NewFlipIDFromString creates a FlipID from an existing UUID string
func NewFlipIDFromString(id string) (FlipID, error) {
	if id == "" {
		return FlipID{}, fmt.Errorf("flip_id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return FlipID{}, fmt.Errorf("invalid flip_id format: %w", err)
	}
	return FlipID{value: id}, nil
}

// String returns the string value of the FlipID
func (f FlipID) String() string {
	return f.value
}

// Equals checks if two FlipIDs are equal
func (f FlipID) Equals(other FlipID) bool {
	return f.value == other.value
}

// IsZero checks if the FlipID is the zero value (uninitialized)
func (f FlipID) IsZero() bool {
	return f.value == ""
}
