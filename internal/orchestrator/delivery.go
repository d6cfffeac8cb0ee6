package orchestrator

import (
	"context"

	"github.com/GriffinCanCode/audio2reu/internal/logchan"
)

// Delivery hands a rendered result to the client.
type Delivery interface {
	Deliver(ctx context.Context, job *Job, html string) error
}

// Inline leaves the result to the caller of Run, which writes it as the HTTP response.
type Inline struct{}

func (Inline) Deliver(context.Context, *Job, string) error { return nil }

// Push sends the result over the client's log channel.
type Push struct {
	Sender logchan.Sender
}

func (p Push) Deliver(ctx context.Context, job *Job, html string) error {
	logchan.Bind(p.Sender, job.ClientID).PushResult(ctx, html)
	return nil
}
