package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// ValidationError reports a single invalid field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ItemNotFoundError is returned when an item id is not present in the catalog
type ItemNotFoundError struct {
	*DomainError
	ItemID int
}

func NewItemNotFoundError(itemID int) *ItemNotFoundError {
	return &ItemNotFoundError{
		DomainError: NewDomainError(fmt.Sprintf("item %d not found in catalog", itemID)),
		ItemID:      itemID,
	}
}
