package resilience

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/GriffinCanCode/audio2reu/internal/errors"
)

const (
	DefaultResetTimeout      = 30 * time.Second
	DefaultHalfOpenSuccesses = 1
)

// Config holds circuit breaker settings. A zero Threshold disables the breaker.
type Config struct {
	Threshold         int           // failures before opening
	ResetTimeout      time.Duration // wait before half-open attempt
	HalfOpenSuccesses int           // successes needed to close
}

// Enabled reports whether a breaker should be built at all.
func (c Config) Enabled() bool { return c.Threshold > 0 }

func (c Config) withDefaults() Config {
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = DefaultResetTimeout
	}
	if c.HalfOpenSuccesses <= 0 {
		c.HalfOpenSuccesses = DefaultHalfOpenSuccesses
	}
	return c
}

// counts reports whether err says something about upstream health.
// Caller cancellation and rejected input do not.
func (c Config) counts(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return !apperrors.IsCode(err, apperrors.CodeInvalidInput)
}
