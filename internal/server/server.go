package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"

	apperrors "github.com/GriffinCanCode/audio2reu/internal/errors"
	"github.com/GriffinCanCode/audio2reu/internal/logchan"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator"
	"github.com/GriffinCanCode/audio2reu/internal/render"
	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

// Jobs validates submissions and runs them.
type Jobs interface {
	Prepare(ctx context.Context, sub orchestrator.Submission) (*orchestrator.Job, error)
	RunInline(ctx context.Context, job *orchestrator.Job) (string, error)
	Submit(ctx context.Context, job *orchestrator.Job) error
	InFlight() int64
}

// Pages renders the landing page.
type Pages interface {
	Index(w io.Writer, data render.Index) error
}

// Prompts supplies the default summarization template shown on the landing page.
type Prompts interface {
	Default() string
}

// Upstreams reports the state of each remote AI breaker.
type Upstreams interface {
	BreakerStates() map[string]string
}

// Options configure the front.
type Options struct {
	DefaultLanguage string
	DefaultModel    string
	Models          []string
	MaxUploadBytes  int64
	Upstreams       Upstreams // optional
	Health          *Health   // optional
}

// Server handles HTTP and WebSocket connections.
type Server struct {
	jobs     Jobs
	channels *logchan.Registry
	pages    Pages
	prompts  Prompts
	opts     Options
	started  time.Time
}

// New creates a new server. The registry is owned here and shared with the job manager.
func New(jobs Jobs, channels *logchan.Registry, pages Pages, prompts Prompts, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{
		jobs:     jobs,
		channels: channels,
		pages:    pages,
		prompts:  prompts,
		opts:     opts,
		started:  time.Now(),
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(trace.Middleware)

	// The websocket upgrade needs the raw connection and the acknowledgment must
	// flush before the job starts, so both stay outside the gzip group.
	r.Get("/ws/{client_id}", s.handleWebSocket)
	r.Post("/process/async", s.handleProcessAsync)

	r.Group(func(r chi.Router) {
		r.Use(gzipMiddleware)
		r.Get("/", s.handleIndex)
		r.Post("/process", s.handleProcess)
		r.Get("/api/health", s.handleHealth)
	})
	return r
}

// NewHTTPServer wraps the handler with the timeouts used in production.
// writeTimeout must cover a whole inline job.
func (s *Server) NewHTTPServer(addr string, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
}

func gzipMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "client_id")
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("websocket accept error", "error", err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	ctx := r.Context()
	log := trace.Logger(ctx).With("client_id", clientID)
	log.Info("websocket connected", "remote", r.RemoteAddr)

	ch := logchan.NewWSChannel(conn)
	s.channels.Connect(ctx, clientID, ch)
	defer s.channels.Disconnect(context.WithoutCancel(ctx), clientID, ch)

	if err := ch.Drain(ctx); err != nil {
		log.Debug("websocket closed", "error", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.pages.Index(w, render.Index{
		ClientID:      uuid.NewString(),
		DefaultPrompt: s.prompts.Default(),
		Language:      s.opts.DefaultLanguage,
		Model:         s.opts.DefaultModel,
		Models:        s.opts.Models,
	})
	if err != nil {
		trace.Logger(r.Context()).Error("render index", "error", err)
	}
}

// handleProcess runs the job inline and answers with the rendered result.
// Every outcome is a 200; failures are reported as plain text in the body.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := trace.Logger(ctx)

	sub, cleanup, err := s.readSubmission(w, r)
	defer cleanup()
	if err != nil {
		log.Warn("read submission", "error", err)
		writeText(w, fmt.Sprintf(inlineFailure, err))
		return
	}

	job, err := s.jobs.Prepare(ctx, sub)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeInvalidInput) {
			writeText(w, fmt.Sprintf(inlineInvalid, err))
			return
		}
		log.Error("prepare job", "error", err)
		writeText(w, fmt.Sprintf(inlineFailure, err))
		return
	}

	// The job finishes even if the client goes away mid-request.
	html, err := s.jobs.RunInline(trace.Detach(ctx), job)
	if err != nil {
		writeText(w, fmt.Sprintf(inlineFailure, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// handleProcessAsync acknowledges the submission, then schedules the job.
// The result arrives later on the client's log channel.
func (s *Server) handleProcessAsync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := trace.Logger(ctx)

	sub, cleanup, err := s.readSubmission(w, r)
	defer cleanup()
	if err != nil {
		log.Warn("read submission", "error", err)
		writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
		return
	}

	job, err := s.jobs.Prepare(ctx, sub)
	if err != nil {
		writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  orchestrator.StatusStarted,
		"message": orchestrator.MsgStarted,
	})
	if err := http.NewResponseController(w).Flush(); err != nil {
		log.Debug("flush acknowledgment", "error", err)
	}

	if err := s.jobs.Submit(ctx, job); err != nil {
		log.Error("submit job", "job_id", job.ID, "error", err)
		return
	}
	log.Info("job submitted", "job_id", job.ID, "client_id", job.ClientID, "input", string(job.Kind))
}

// readSubmission parses the multipart form. cleanup removes any parts spilled to disk
// and is safe to call when err is non-nil.
func (s *Server) readSubmission(w http.ResponseWriter, r *http.Request) (orchestrator.Submission, func(), error) {
	cleanup := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return orchestrator.Submission{}, cleanup, apperrors.Wrap(err, apperrors.CodeUploadIO, "parse form")
	}
	if r.MultipartForm != nil {
		form := r.MultipartForm
		cleanup = func() { _ = form.RemoveAll() }
	}

	sub := orchestrator.Submission{
		ClientID:       r.FormValue(fieldClientID),
		InputType:      r.FormValue(fieldInputType),
		RawText:        r.FormValue(fieldRawText),
		Language:       r.FormValue(fieldLanguage),
		ModelKey:       r.FormValue(fieldModel),
		Instruction:    r.FormValue(fieldCustomPrompt),
		GuidancePrompt: r.FormValue(fieldWhisperPrompt),
	}

	file, header, err := r.FormFile(fieldFile)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return sub, cleanup, apperrors.Wrap(err, apperrors.CodeUploadIO, "read upload")
	default:
		prev := cleanup
		cleanup = func() {
			_ = file.Close()
			prev()
		}
		sub.Upload = upload(file, header)
	}
	return sub, cleanup, nil
}

// errorStatus maps a submission error to the detached front's status.
// An oversized body is 413; everything else follows the error code.
func errorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

func upload(file multipart.File, header *multipart.FileHeader) *orchestrator.Upload {
	return &orchestrator.Upload{Filename: header.Filename, Body: file}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":         "ok",
		"service":        "audio2reu",
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
		"jobs_in_flight": s.jobs.InFlight(),
		"channels_open":  s.channels.Len(),
	}
	if s.opts.Upstreams != nil {
		resp["upstreams"] = s.opts.Upstreams.BreakerStates()
	}
	status := http.StatusOK
	if s.opts.Health != nil && !s.opts.Health.Serving() {
		resp["status"] = "draining"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
