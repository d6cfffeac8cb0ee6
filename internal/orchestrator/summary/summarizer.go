// Package summary writes meeting minutes from a transcript with a chat model.
package summary

//go:generate mockgen -source summarizer.go -destination mock_summarizer_test.go -package summary

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/GriffinCanCode/audio2reu/internal/errors"
	"github.com/GriffinCanCode/audio2reu/internal/inference"
	"github.com/GriffinCanCode/audio2reu/internal/logchan"
	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

// Client performs the remote chat completion.
type Client interface {
	Complete(ctx context.Context, req inference.ChatRequest) (string, error)
}

// Prompts supplies the default instruction.
type Prompts interface {
	Default() string
}

// Request is one summarization job.
type Request struct {
	Text     string
	ModelKey string
	// Instruction replaces the default system prompt when not blank.
	Instruction string
}

// Summarizer builds the chat request and reports progress to a sink.
type Summarizer struct {
	client  Client
	prompts Prompts
}

// New creates a summarizer.
func New(client Client, prompts Prompts) *Summarizer {
	return &Summarizer{client: client, prompts: prompts}
}

// ResolveModel returns the upstream model for key, falling back to the default key.
func ResolveModel(key string) string {
	if m, ok := Models[key]; ok {
		return m
	}
	return Models[DefaultModelKey]
}

// Summarize returns the Markdown minutes for req.Text.
func (s *Summarizer) Summarize(ctx context.Context, req Request, sink logchan.Sink) (string, error) {
	sink = logchan.OrDiscard(sink)
	ctx, span := trace.StartSpan(ctx, "summarize")
	defer span.End()

	model := ResolveModel(req.ModelKey)
	span.SetAttr("model", model)
	sink.Log(ctx, fmt.Sprintf(msgStart, model))

	system := req.Instruction
	if strings.TrimSpace(system) == "" {
		system = s.prompts.Default()
	}

	out, err := s.client.Complete(ctx, inference.ChatRequest{
		Model:       model,
		System:      system,
		User:        fmt.Sprintf(userTemplate, req.Text),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		span.SetAttr("error", err.Error())
		sink.Log(ctx, fmt.Sprintf(msgError, err))
		return "", apperrors.FromRemote(err, apperrors.CodeSummarization, "summarization failed").
			WithMetadata("model", model)
	}
	return out, nil
}
