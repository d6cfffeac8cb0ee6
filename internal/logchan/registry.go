// Package logchan routes job progress to the live channel of the client that submitted it.
package logchan

import (
	"context"
	"sync"
	"time"

	"github.com/GriffinCanCode/audio2reu/internal/syncx"
	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

// Channel is the transport side of a client session.
type Channel interface {
	WriteText(ctx context.Context, msg string) error
}

// Sender delivers events addressed by client id.
type Sender interface {
	Send(ctx context.Context, clientID string, ev Event)
}

type session struct {
	ch Channel
	mu sync.Mutex // serializes frames so one client sees events in emission order
}

// Registry maps client ids to their current channel. At most one channel per id.
type Registry struct {
	sessions     *syncx.RWGuard[map[string]*session]
	writeTimeout time.Duration
}

// NewRegistry creates an empty registry. A non-positive timeout uses DefaultWriteTimeout.
func NewRegistry(writeTimeout time.Duration) *Registry {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Registry{
		sessions:     syncx.NewGuard(make(map[string]*session)),
		writeTimeout: writeTimeout,
	}
}

// Connect registers ch for clientID, replacing any previous channel.
func (r *Registry) Connect(ctx context.Context, clientID string, ch Channel) {
	replaced := syncx.Modify(r.sessions, func(m *map[string]*session) bool {
		_, ok := (*m)[clientID]
		(*m)[clientID] = &session{ch: ch}
		return ok
	})
	log := trace.Logger(ctx)
	if replaced {
		log.Info("log channel replaced", "client_id", clientID)
		return
	}
	log.Info("log channel connected", "client_id", clientID)
}

// Disconnect removes the mapping for clientID if it still points at ch.
// A stale channel closing after a reconnect leaves its successor in place.
func (r *Registry) Disconnect(ctx context.Context, clientID string, ch Channel) {
	removed := syncx.Modify(r.sessions, func(m *map[string]*session) bool {
		s, ok := (*m)[clientID]
		if !ok || s.ch != ch {
			return false
		}
		delete(*m, clientID)
		return true
	})
	if removed {
		trace.Logger(ctx).Info("log channel disconnected", "client_id", clientID)
	}
}

// Send delivers ev to the client's current channel. Unknown ids and write
// failures are dropped; the caller never sees an error.
func (r *Registry) Send(ctx context.Context, clientID string, ev Event) {
	s := syncx.View(r.sessions, func(m map[string]*session) *session { return m[clientID] })
	if s == nil {
		return
	}
	msg, err := ev.Encode()
	if err != nil {
		trace.Logger(ctx).Warn("encode log event failed", "client_id", clientID, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	wctx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()
	if err := s.ch.WriteText(wctx, msg); err != nil {
		trace.Logger(ctx).Debug("log event dropped", "client_id", clientID, "error", err)
	}
}

// Connected reports whether clientID currently has a channel.
func (r *Registry) Connected(clientID string) bool {
	return syncx.View(r.sessions, func(m map[string]*session) bool {
		_, ok := m[clientID]
		return ok
	})
}

// Len returns the number of open channels.
func (r *Registry) Len() int {
	return syncx.View(r.sessions, func(m map[string]*session) int { return len(m) })
}
