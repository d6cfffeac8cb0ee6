// Package resilience guards calls to remote AI services with a circuit breaker.
// Calls are never retried; a tripped breaker fails jobs fast until the upstream recovers.
package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	apperrors "github.com/GriffinCanCode/audio2reu/internal/errors"
)

// State represents circuit breaker state
type State uint32

const (
	Closed   State = iota // Normal operation
	Open                  // Failing fast
	HalfOpen              // Probing recovery
)

func (s State) String() string {
	return [...]string{"closed", "open", "half-open"}[s]
}

// ErrOpen is the cause attached to rejections while the breaker is open.
var ErrOpen = errors.New("circuit breaker open")

// Breaker implements the circuit breaker pattern with atomic state.
// A nil *Breaker lets every call through.
type Breaker struct {
	name          string
	cfg           Config
	state         atomic.Uint32
	failures      atomic.Int32
	successes     atomic.Int32
	lastFailure   atomic.Int64 // unix nano
	onStateChange func(from, to State)
}

// New creates a breaker for the named upstream. It returns nil when cfg is disabled.
func New(name string, cfg Config) *Breaker {
	if !cfg.Enabled() {
		return nil
	}
	b := &Breaker{name: name, cfg: cfg.withDefaults()}
	b.state.Store(uint32(Closed))
	return b
}

// WithHook sets the callback run on every state change. The breaker itself does not log.
func (b *Breaker) WithHook(fn func(from, to State)) *Breaker {
	if b != nil {
		b.onStateChange = fn
	}
	return b
}

// Allow checks if a call should proceed; returns an UNAVAILABLE AppError if not.
func (b *Breaker) Allow() error {
	if b == nil {
		return nil
	}
	if State(b.state.Load()) == Open {
		if !b.shouldAttemptReset() {
			return apperrors.Wrapf(ErrOpen, apperrors.CodeUnavailable, "%s unavailable", b.name)
		}
		b.transition(HalfOpen)
	}
	return nil
}

// Success records a successful call.
func (b *Breaker) Success() {
	if b == nil {
		return
	}
	switch State(b.state.Load()) {
	case HalfOpen:
		if b.successes.Add(1) >= int32(b.cfg.HalfOpenSuccesses) {
			b.transition(Closed)
		}
	case Closed:
		b.failures.Store(0)
	}
}

// Failure records a failed call. Errors the config does not count are ignored.
func (b *Breaker) Failure(err error) {
	if b == nil || !b.cfg.counts(err) {
		return
	}
	b.lastFailure.Store(time.Now().UnixNano())
	count := b.failures.Add(1)

	switch State(b.state.Load()) {
	case HalfOpen:
		b.transition(Open)
	case Closed:
		if count >= int32(b.cfg.Threshold) {
			b.transition(Open)
		}
	}
}

// State returns current state
func (b *Breaker) State() State {
	if b == nil {
		return Closed
	}
	return State(b.state.Load())
}

// Reset forces breaker to closed state
func (b *Breaker) Reset() {
	if b != nil {
		b.transition(Closed)
	}
}

func (b *Breaker) transition(to State) {
	from := State(b.state.Swap(uint32(to)))
	if from == to {
		return
	}

	switch to {
	case Closed:
		b.failures.Store(0)
		b.successes.Store(0)
	case Open, HalfOpen:
		b.successes.Store(0)
	}

	if b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}

func (b *Breaker) shouldAttemptReset() bool {
	last := b.lastFailure.Load()
	if last == 0 {
		return true
	}
	return time.Since(time.Unix(0, last)) > b.cfg.ResetTimeout
}

// Execute runs fn with circuit breaker protection.
func Execute[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := b.Allow(); err != nil {
		return zero, err
	}
	result, err := fn(ctx)
	if err != nil {
		b.Failure(err)
		return zero, err
	}
	b.Success()
	return result, nil
}
