package logchan

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

// Sink receives the progress lines of one job.
type Sink interface {
	Log(ctx context.Context, line string)
}

// ClientSink writes every line to the process log and forwards it to one client.
type ClientSink struct {
	sender   Sender
	clientID string
}

// Bind returns the sink for clientID.
func Bind(sender Sender, clientID string) *ClientSink {
	return &ClientSink{sender: sender, clientID: clientID}
}

func (s *ClientSink) Log(ctx context.Context, line string) {
	trace.Logger(ctx).Info(line, "client_id", s.clientID)
	s.sender.Send(ctx, s.clientID, Text(line))
}

// PushResult sends the terminal result payload.
func (s *ClientSink) PushResult(ctx context.Context, html string) {
	s.sender.Send(ctx, s.clientID, Result(html))
}

// WriterSink prints lines to w, one per line. Used by the command line runner.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink { return &WriterSink{w: w} }

func (s *WriterSink) Log(_ context.Context, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
}

// Discard drops every line.
var Discard Sink = discard{}

type discard struct{}

func (discard) Log(context.Context, string) {}

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}
