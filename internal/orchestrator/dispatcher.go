package orchestrator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

// ErrDispatcherClosed is returned by Go after Shutdown has begun.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Dispatcher runs detached tasks on their own goroutines and tracks them for shutdown.
type Dispatcher struct {
	mu       sync.Mutex
	closed   bool
	wg       sync.WaitGroup
	inflight atomic.Int64
}

// NewDispatcher creates an open dispatcher.
func NewDispatcher() *Dispatcher { return &Dispatcher{} }

// Go starts fn with a context detached from ctx's cancellation but carrying its trace.
func (d *Dispatcher) Go(ctx context.Context, fn func(context.Context)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	d.wg.Add(1)
	d.inflight.Add(1)
	taskCtx := trace.Detach(ctx)
	go func() {
		defer d.wg.Done()
		defer d.inflight.Add(-1)
		fn(taskCtx)
	}()
	return nil
}

// InFlight returns the number of running tasks.
func (d *Dispatcher) InFlight() int64 { return d.inflight.Load() }

// Shutdown refuses new tasks and waits for running ones or ctx, whichever ends first.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		trace.Logger(ctx).Warn("shutdown with jobs still running", "in_flight", d.InFlight())
		return ctx.Err()
	}
}
