package orchestrator

import (
	"context"
	"io"
	"sync"
)

// InputKind selects how the transcript is obtained.
type InputKind string

const (
	InputAudio InputKind = "audio"
	InputText  InputKind = "text"
)

// Upload is a file received with a submission.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Submission is what a client posts, before validation.
type Submission struct {
	ClientID       string
	InputType      string
	Upload         *Upload
	RawText        string
	Language       string
	ModelKey       string
	Instruction    string // custom summarization prompt
	GuidancePrompt string // transcription vocabulary prompt
}

// Job is a validated submission whose audio, if any, is on disk.
type Job struct {
	ID             string
	ClientID       string
	Kind           InputKind
	Path           string // saved upload; empty for text jobs
	Text           string
	Filename       string
	Language       string
	ModelKey       string
	Instruction    string
	GuidancePrompt string

	cleanupOnce sync.Once
	remove      func(ctx context.Context, path string)
}

// Release removes the job's saved upload. Safe to call more than once; only the
// first call has an effect.
func (j *Job) Release(ctx context.Context) {
	j.cleanupOnce.Do(func() {
		if j.Path != "" && j.remove != nil {
			j.remove(ctx, j.Path)
		}
	})
}
