// Package circuitbreaker implements a simple three-state circuit breaker.
// It guards the refresh endpoint so that a feed outage does not turn every
// API call into a slow failure.
package circuitbreaker

import (
	"sync"
	"time"

	"github.com/cmilne/telegrid/internal/errors"
	"github.com/cmilne/telegrid/internal/logger"
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker configuration
type Config struct {
	// FailureThreshold is the number of consecutive failures before opening
	FailureThreshold int
	// OpenTimeout is how long the breaker stays open before probing
	OpenTimeout time.Duration
	// HalfOpenSuccesses is the number of successes needed to close again
	HalfOpenSuccesses int
}

// DefaultConfig returns sensible breaker defaults
func DefaultConfig() Config {
	return Config{
		FailureThreshold:  3,
		OpenTimeout:       60 * time.Second,
		HalfOpenSuccesses: 1,
	}
}

// Breaker is a thread-safe circuit breaker
type Breaker struct {
	mu        sync.Mutex
	cfg       Config
	state     State
	failures  int
	successes int
	openedAt  time.Time
	now       func() time.Time
	log       *logger.Logger
}

// New creates a circuit breaker with the given configuration
func New(cfg Config) *Breaker {
	return &Breaker{
		cfg:   cfg,
		state: StateClosed,
		now:   time.Now,
		log:   logger.AppLogger(),
	}
}

// State returns the current state, accounting for open-timeout expiry.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

func (b *Breaker) currentState() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.state = StateHalfOpen
		b.successes = 0
	}
	return b.state
}

// Execute runs fn if the breaker allows it. When the breaker is open it
// returns a CodeCircuitOpen error without calling fn.
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()
	if b.currentState() == StateOpen {
		b.mu.Unlock()
		return errors.New(errors.CodeCircuitOpen, "circuit breaker is open, request rejected")
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure()
		return err
	}
	b.onSuccess()
	return nil
}

func (b *Breaker) onFailure() {
	b.failures++
	b.successes = 0
	if b.state == StateHalfOpen || b.failures >= b.cfg.FailureThreshold {
		if b.state != StateOpen {
			b.log.WithFields(map[string]interface{}{
				"failures": b.failures,
			}).Warn("circuit breaker opened")
		}
		b.state = StateOpen
		b.openedAt = b.now()
	}
}

func (b *Breaker) onSuccess() {
	b.failures = 0
	if b.state == StateHalfOpen {
		b.successes++
		if b.successes >= b.cfg.HalfOpenSuccesses {
			b.state = StateClosed
			b.log.Info("circuit breaker closed")
		}
	}
}
