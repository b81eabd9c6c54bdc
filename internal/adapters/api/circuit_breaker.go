package api

import (
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// CircuitState is the position of the feed circuit breaker
type CircuitState int

const (
	// CircuitClosed lets every request through
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects requests until the cool-down elapses
	CircuitOpen
	// CircuitHalfOpen lets one probe through after the cool-down
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned without calling the wiki while the breaker is open
var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitBreaker stops hammering the price API after repeated transient
// failures. Permanent errors (4xx, undecodable bodies) never trip it.
type CircuitBreaker struct {
	mu sync.RWMutex

	threshold int
	cooldown  time.Duration
	clock     shared.Clock

	state    CircuitState
	failures int
	openedAt time.Time
}

// NewCircuitBreaker opens after threshold consecutive transient failures and
// probes again once cooldown has elapsed. A nil clock uses wall time.
func NewCircuitBreaker(threshold int, cooldown time.Duration, clock shared.Clock) *CircuitBreaker {
	return &CircuitBreaker{
		threshold: max(1, threshold),
		cooldown:  cooldown,
		clock:     shared.OrRealClock(clock),
	}
}

// Call runs fn unless the breaker is open. fn runs without the lock held so
// slow retries do not block State callers.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.admit() {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil && !isPermanent(err) {
		cb.failures++
		cb.openedAt = cb.clock.Now()
		if cb.state == CircuitHalfOpen || cb.failures >= cb.threshold {
			cb.state = CircuitOpen
		}
		return err
	}
	cb.failures = 0
	cb.state = CircuitClosed
	return err
}

func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state != CircuitOpen {
		return true
	}
	if cb.clock.Now().Sub(cb.openedAt) < cb.cooldown {
		return false
	}
	cb.state = CircuitHalfOpen
	return true
}

// State returns the current breaker state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Failures returns the consecutive transient failure count
func (cb *CircuitBreaker) Failures() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failures
}
