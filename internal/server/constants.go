// Package server provides HTTP and WebSocket handlers
package server

import "time"

// Server configuration constants
const (
	// multipartMemory is kept in memory while parsing a form; larger parts spill to disk.
	multipartMemory = 32 << 20

	DefaultMaxUploadBytes = 512 << 20

	readHeaderTimeout = 10 * time.Second

	// HealthService is the gRPC health service name reported alongside the overall status.
	HealthService = "audio2reu.Processor"
)

// Form fields posted by the index page
const (
	fieldClientID      = "client_id"
	fieldInputType     = "inputType"
	fieldFile          = "file"
	fieldRawText       = "rawText"
	fieldLanguage      = "language"
	fieldModel         = "model"
	fieldCustomPrompt  = "customPrompt"
	fieldWhisperPrompt = "whisperPrompt"
)

// Inline error bodies
const (
	inlineInvalid = "Erreur: %s"
	inlineFailure = "Une erreur est survenue : %v"
)
