// Package transcript turns an uploaded recording into text through the remote
// speech-to-text model.
package transcript

//go:generate mockgen -source transcriber.go -destination mock_transcriber_test.go -package transcript

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"

	apperrors "github.com/GriffinCanCode/audio2reu/internal/errors"
	"github.com/GriffinCanCode/audio2reu/internal/inference"
	"github.com/GriffinCanCode/audio2reu/internal/logchan"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator/audio"
	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

// Client performs the remote transcription call.
type Client interface {
	Transcribe(ctx context.Context, req inference.TranscriptionRequest) (string, error)
}

// Preprocessor prepares an audio file for upload.
type Preprocessor interface {
	Prepare(ctx context.Context, path string) (audio.Result, error)
}

// Config for the transcriber
type Config struct {
	Model           string
	DefaultLanguage string
}

// Request is one transcription job.
type Request struct {
	Path     string
	Language string
	// Prompt guides vocabulary and spelling; blank means none.
	Prompt string
}

// Transcriber runs preprocessing and the remote call, reporting progress to a sink.
type Transcriber struct {
	client Client
	pre    Preprocessor
	cfg    Config
}

// New creates a transcriber.
func New(client Client, pre Preprocessor, cfg Config) *Transcriber {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = DefaultLanguage
	}
	return &Transcriber{client: client, pre: pre, cfg: cfg}
}

// Transcribe returns the transcript of req.Path. Any compressed copy made along
// the way is removed before returning; req.Path itself belongs to the caller.
func (t *Transcriber) Transcribe(ctx context.Context, req Request, sink logchan.Sink) (string, error) {
	sink = logchan.OrDiscard(sink)
	ctx, span := trace.StartSpan(ctx, "transcribe")
	defer span.End()
	log := trace.Logger(ctx)

	lang := NormalizeLanguage(req.Language, t.cfg.DefaultLanguage)
	span.SetAttr("language", lang)
	sink.Log(ctx, fmt.Sprintf(msgStart, lang))

	prepared, err := t.pre.Prepare(ctx, req.Path)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodePreprocessingFailed, "audio preparation failed")
	}
	if prepared.Compressed {
		defer removeArtifact(ctx, prepared.Path)
		sink.Log(ctx, msgCompressed)
	}

	call := inference.TranscriptionRequest{
		Model:    t.cfg.Model,
		FilePath: prepared.Path,
		Language: lang,
	}
	if strings.TrimSpace(req.Prompt) != "" {
		call.Prompt = truncateRunes(req.Prompt, MaxPromptRunes)
		sink.Log(ctx, fmt.Sprintf(msgPrompt, truncateRunes(call.Prompt, PreviewRunes)))
	}

	text, err := t.client.Transcribe(ctx, call)
	if err != nil {
		span.SetAttr("error", err.Error())
		log.Error("transcription failed", "model", call.Model, "error", err)
		return "", apperrors.FromRemote(err, apperrors.CodeTranscription, "transcription failed")
	}

	span.SetAttr("chars", len(text))
	sink.Log(ctx, msgDone)
	return text, nil
}

// NormalizeLanguage maps a BCP 47 tag to the ISO 639-1 code the model expects.
// Blank input yields def; unparsable input is forwarded unchanged.
func NormalizeLanguage(lang, def string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return def
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	base, conf := tag.Base()
	if conf == language.No {
		return lang
	}
	return base.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func removeArtifact(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		trace.Logger(ctx).Warn("remove compressed audio failed", "path", path, "error", err)
	}
}
