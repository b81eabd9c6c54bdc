package api

import (
	"errors"
	"fmt"
	"time"
)

// StatusError is a non-2xx response from a feed endpoint
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// retryableError represents an error that should trigger a retry
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}

// permanentError wraps failures that retrying or tripping the breaker cannot fix
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

func isPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
