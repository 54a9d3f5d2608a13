// Package retry provides exponential backoff with jitter. The guide core
// itself never retries; this lives in the drivers (CLI, service shell) that
// sit in front of it.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	JitterFraction    float64
}

// DefaultConfig returns sensible defaults for retry configuration
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       3,
		InitialBackoff:    2 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		JitterFraction:    0.1,
	}
}

// IsRetryable decides whether an error should trigger another attempt
type IsRetryable func(error) bool

// Do executes fn with exponential backoff, stopping on success, a
// non-retryable error, exhausted attempts, or context cancellation.
func Do(ctx context.Context, cfg Config, fn func() error, isRetryable IsRetryable) error {
	var err error
	backoff := cfg.InitialBackoff

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(withJitter(backoff, cfg.JitterFraction)):
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return err
}

// withJitter spreads sleeps to avoid synchronized retries
func withJitter(backoff time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return backoff
	}
	jitter := (rand.Float64()*2 - 1) * fraction * float64(backoff)
	result := float64(backoff) + jitter
	if result < 0 {
		return 0
	}
	return time.Duration(result)
}
