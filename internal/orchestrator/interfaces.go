package orchestrator

//go:generate mockgen -source interfaces.go -destination mock_interfaces_test.go -package orchestrator

import (
	"context"

	"github.com/GriffinCanCode/audio2reu/internal/logchan"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator/summary"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator/transcript"
	"github.com/GriffinCanCode/audio2reu/internal/render"
)

// Transcriber turns a saved upload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, req transcript.Request, sink logchan.Sink) (string, error)
}

// Summarizer turns text into Markdown minutes.
type Summarizer interface {
	Summarize(ctx context.Context, req summary.Request, sink logchan.Sink) (string, error)
}

// Renderer turns a finished job into the HTML shown to the client.
type Renderer interface {
	Result(res render.Result) (string, error)
}
