// Package orchestrator drives submitted jobs through transcription and
// summarization and delivers the result to the submitting client.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/google/uuid"

	apperrors "github.com/GriffinCanCode/audio2reu/internal/errors"
	"github.com/GriffinCanCode/audio2reu/internal/logchan"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator/summary"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator/transcript"
	"github.com/GriffinCanCode/audio2reu/internal/render"
	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

// Config for the manager
type Config struct {
	TempDir         string
	DefaultLanguage string
	DefaultModelKey string
}

// Manager validates submissions and runs jobs.
type Manager struct {
	transcriber Transcriber
	summarizer  Summarizer
	renderer    Renderer
	sender      logchan.Sender
	dispatcher  *Dispatcher
	cfg         Config
	remove      func(string) error
}

// New creates a manager. sender addresses client log channels.
func New(t Transcriber, s Summarizer, r Renderer, sender logchan.Sender, cfg Config) *Manager {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = DefaultLanguage
	}
	if cfg.DefaultModelKey == "" {
		cfg.DefaultModelKey = DefaultModelKey
	}
	return &Manager{
		transcriber: t,
		summarizer:  s,
		renderer:    r,
		sender:      sender,
		dispatcher:  NewDispatcher(),
		cfg:         cfg,
		remove:      os.Remove,
	}
}

// Prepare validates sub and saves its upload. Errors here are reported to the
// submitter synchronously and no job exists afterwards.
func (m *Manager) Prepare(ctx context.Context, sub Submission) (*Job, error) {
	job := &Job{
		ID:             uuid.NewString(),
		ClientID:       sub.ClientID,
		Language:       orDefault(sub.Language, m.cfg.DefaultLanguage),
		ModelKey:       orDefault(sub.ModelKey, m.cfg.DefaultModelKey),
		Instruction:    sub.Instruction,
		GuidancePrompt: sub.GuidancePrompt,
		remove:         m.removeUpload,
	}

	if InputKind(sub.InputType) == InputAudio {
		if sub.Upload == nil || sub.Upload.Filename == "" || sub.Upload.Body == nil {
			return nil, apperrors.New(apperrors.CodeInvalidInput, MsgMissingAudio)
		}
		path, err := m.saveUpload(sub.Upload)
		if err != nil {
			return nil, err
		}
		job.Kind = InputAudio
		job.Path = path
		job.Filename = sub.Upload.Filename
		trace.Logger(ctx).Info("upload saved", "job_id", job.ID, "client_id", job.ClientID, "path", path)
		return job, nil
	}

	if sub.RawText == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, MsgMissingText)
	}
	job.Kind = InputText
	job.Text = sub.RawText
	job.Filename = render.TextFilename
	return job, nil
}

// saveUpload streams the upload to a uniquely named file in the temp dir.
func (m *Manager) saveUpload(up *Upload) (string, error) {
	ext := filepath.Ext(filepath.Base(up.Filename))
	path := filepath.Join(m.cfg.TempDir, tempPrefix+uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeUploadIO, "save upload")
	}
	_, copyErr := io.Copy(f, up.Body)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = m.remove(path)
		return "", apperrors.Wrap(err, apperrors.CodeUploadIO, "save upload")
	}
	return path, nil
}

func (m *Manager) removeUpload(ctx context.Context, path string) {
	if err := m.remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		trace.Logger(ctx).Warn("remove upload failed", "path", path, "error", err)
	}
}

// Run executes job to completion, emitting progress to sink, and returns the
// rendered result. On failure a single terminal error line is emitted and the
// error is returned. The saved upload is removed before Run returns.
func (m *Manager) Run(ctx context.Context, job *Job, sink logchan.Sink, delivery Delivery) (html string, err error) {
	sink = logchan.OrDiscard(sink)
	ctx, span := trace.StartSpan(ctx, "job")
	span.SetAttr("job_id", job.ID)
	span.SetAttr("client_id", job.ClientID)
	span.SetAttr("input", string(job.Kind))
	log := trace.Logger(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error("job panicked", "panic", r, "stack", string(debug.Stack()))
			err = apperrors.Newf(apperrors.CodeUnknown, "%v", r)
			html = ""
		}
		job.Release(ctx)
		if err != nil {
			span.SetAttr("error", err.Error())
			sink.Log(ctx, fmt.Sprintf(msgServerError, err))
		}
		span.End()
		log.Info("job finished", "span", span)
	}()

	text, err := m.obtainText(ctx, job, sink)
	if err != nil {
		return "", err
	}

	minutes, err := m.summarizer.Summarize(ctx, summary.Request{
		Text:        text,
		ModelKey:    job.ModelKey,
		Instruction: job.Instruction,
	}, sink)
	if err != nil {
		return "", err
	}

	sink.Log(ctx, msgDone)

	html, err = m.renderer.Result(render.Result{
		Filename:   job.Filename,
		Transcript: text,
		Summary:    minutes,
	})
	if err != nil {
		return "", err
	}
	if err := delivery.Deliver(ctx, job, html); err != nil {
		return "", err
	}
	return html, nil
}

func (m *Manager) obtainText(ctx context.Context, job *Job, sink logchan.Sink) (string, error) {
	if job.Kind != InputAudio {
		sink.Log(ctx, msgRawText)
		return job.Text, nil
	}
	return m.transcriber.Transcribe(ctx, transcript.Request{
		Path:     job.Path,
		Language: job.Language,
		Prompt:   job.GuidancePrompt,
	}, sink)
}

// RunInline runs job on the calling goroutine with progress sent to the job's client.
func (m *Manager) RunInline(ctx context.Context, job *Job) (string, error) {
	return m.Run(ctx, job, logchan.Bind(m.sender, job.ClientID), Inline{})
}

// Submit schedules job on the dispatcher and returns immediately. The job
// outlives ctx; its result is pushed to the client's log channel.
func (m *Manager) Submit(ctx context.Context, job *Job) error {
	err := m.dispatcher.Go(ctx, func(ctx context.Context) {
		_, _ = m.Run(ctx, job, logchan.Bind(m.sender, job.ClientID), Push{Sender: m.sender})
	})
	if err != nil {
		job.Release(ctx)
		appErr := apperrors.Wrap(err, apperrors.CodeUnavailable, "job not scheduled")
		logchan.Bind(m.sender, job.ClientID).Log(ctx, fmt.Sprintf(msgServerError, appErr))
		return appErr
	}
	return nil
}

// InFlight returns the number of detached jobs still running.
func (m *Manager) InFlight() int64 { return m.dispatcher.InFlight() }

// Shutdown stops accepting detached jobs and waits for running ones until ctx ends.
func (m *Manager) Shutdown(ctx context.Context) error { return m.dispatcher.Shutdown(ctx) }

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
