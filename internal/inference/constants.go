package inference

import "time"

// Client defaults
const (
	// DefaultRequestTimeout bounds one remote call. Long recordings take minutes to transcribe.
	DefaultRequestTimeout = 10 * time.Minute

	transcriptionUpstream = "transcription"
	chatUpstream          = "chat"
)
