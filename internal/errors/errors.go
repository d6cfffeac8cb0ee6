// Package errors provides unified error handling for the job pipeline.
// Codes map onto HTTP statuses for the detached front.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Code identifies a failure class.
type Code string

const (
	CodeUnknown             Code = "UNKNOWN"
	CodeInvalidInput        Code = "INVALID_INPUT"
	CodeUploadIO            Code = "UPLOAD_IO"
	CodeTranscription       Code = "TRANSCRIPTION_FAILED"
	CodeSummarization       Code = "SUMMARIZATION_FAILED"
	CodeUnavailable         Code = "UNAVAILABLE"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeTimeout             Code = "TIMEOUT"
	CodeConfigMissing       Code = "CONFIG_MISSING"
	CodePreprocessingFailed Code = "PREPROCESSING_FAILED"
)

var httpStatusMap = map[Code]int{
	CodeInvalidInput:  http.StatusBadRequest,
	CodeUploadIO:      http.StatusInternalServerError,
	CodeTranscription: http.StatusBadGateway,
	CodeSummarization: http.StatusBadGateway,
	CodeUnavailable:   http.StatusServiceUnavailable,
	CodeRateLimited:   http.StatusTooManyRequests,
	CodeTimeout:       http.StatusGatewayTimeout,
	CodeConfigMissing: http.StatusInternalServerError,
}

// AppError is the base error type with structured error code and metadata.
type AppError struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

// Error renders the message and the cause chain, which is what ends up in client log lines.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Cause }

// HTTPStatus returns the status used when the error is reported synchronously.
func (e *AppError) HTTPStatus() int {
	if s, ok := httpStatusMap[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New creates a new AppError with the given code and message.
func New(code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// Newf creates a new AppError with formatted message.
func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError.
func Wrap(err error, code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with formatted message.
func Wrapf(err error, code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// WithMetadata adds metadata to an AppError.
func (e *AppError) WithMetadata(key, value string) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// FromRemote wraps a failed remote call under the stage code (transcription or
// summarization). The upstream condition is kept as "reason" metadata so callers
// can tell a rate limit from an outage without losing the stage.
func FromRemote(err error, stage Code, msg string) *AppError {
	if err == nil {
		return nil
	}
	e := Wrap(err, stage, msg)

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return e.WithMetadata("reason", strings.ToLower(string(appErr.Code)))
	}

	statusCode := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case stderrors.As(err, &apiErr):
		statusCode = apiErr.HTTPStatusCode
	case stderrors.As(err, &reqErr):
		statusCode = reqErr.HTTPStatusCode
	}
	if statusCode == 0 {
		return e
	}
	e.WithMetadata("http_status", strconv.Itoa(statusCode))
	switch statusCode {
	case http.StatusTooManyRequests:
		e.WithMetadata("reason", strings.ToLower(string(CodeRateLimited)))
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		e.WithMetadata("reason", strings.ToLower(string(CodeUnavailable)))
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		e.WithMetadata("reason", strings.ToLower(string(CodeTimeout)))
	}
	return e
}

// CodeOf returns the code of the first AppError in the chain, or CodeUnknown.
func CodeOf(err error) Code {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code Code) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
