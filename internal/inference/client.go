// Package inference talks to the OpenAI-compatible API that hosts the
// transcription and chat models.
package inference

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/GriffinCanCode/audio2reu/internal/errors"
	"github.com/GriffinCanCode/audio2reu/internal/resilience"
	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

// Config for the remote client
type Config struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	Breaker        resilience.Config
}

// TranscriptionRequest describes one speech-to-text call.
type TranscriptionRequest struct {
	Model    string
	FilePath string
	Language string
	Prompt   string
}

// ChatRequest describes one single-turn chat completion.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Client wraps the OpenAI-compatible endpoints with per-upstream breakers.
type Client struct {
	api           *openai.Client
	hasKey        bool
	transcription *resilience.Breaker
	chat          *resilience.Breaker
}

// New creates a client. Requests carry the caller's trace headers.
func New(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: trace.NewTransport(nil),
	}
	return &Client{
		api:           openai.NewClientWithConfig(oc),
		hasKey:        cfg.APIKey != "",
		transcription: resilience.New(transcriptionUpstream, cfg.Breaker).WithHook(logTransition(transcriptionUpstream)),
		chat:          resilience.New(chatUpstream, cfg.Breaker).WithHook(logTransition(chatUpstream)),
	}
}

// Transcribe uploads an audio file and returns the plain-text transcript.
func (c *Client) Transcribe(ctx context.Context, req TranscriptionRequest) (string, error) {
	if err := c.checkKey(); err != nil {
		return "", err
	}
	return resilience.Execute(ctx, c.transcription, func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
			Model:    req.Model,
			FilePath: req.FilePath,
			Prompt:   req.Prompt,
			Language: req.Language,
			Format:   openai.AudioResponseFormatText,
		})
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	})
}

// Complete runs a system+user chat completion and returns the first choice.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if err := c.checkKey(); err != nil {
		return "", err
	}
	return resilience.Execute(ctx, c.chat, func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: req.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: req.System},
				{Role: openai.ChatMessageRoleUser, Content: req.User},
			},
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", apperrors.New(apperrors.CodeUnknown, "chat completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
}

func logTransition(upstream string) func(from, to resilience.State) {
	return func(from, to resilience.State) {
		level := slog.LevelInfo
		if to == resilience.Open {
			level = slog.LevelWarn
		}
		slog.Log(context.Background(), level, "circuit breaker "+to.String(), "upstream", upstream, "from", from.String())
	}
}

// BreakerStates reports breaker state per upstream for health output.
func (c *Client) BreakerStates() map[string]string {
	return map[string]string{
		transcriptionUpstream: c.transcription.State().String(),
		chatUpstream:          c.chat.State().String(),
	}
}

func (c *Client) checkKey() error {
	if !c.hasKey {
		return apperrors.New(apperrors.CodeConfigMissing, "ALBERT_API_KEY is not set")
	}
	return nil
}
