// Package audio shrinks large uploads before they are sent for transcription.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

// Runner executes an external command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner runs commands with stdout and stderr discarded.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Config for the preprocessor
type Config struct {
	FFmpegPath     string
	ThresholdBytes int64
}

// Result describes the file to upload.
type Result struct {
	Path string
	// Compressed is true when Path is a new artifact the caller must remove.
	Compressed bool
}

// Preprocessor re-encodes oversized audio with ffmpeg when it is available.
type Preprocessor struct {
	cfg      Config
	runner   Runner
	lookPath func(string) (string, error)
}

// NewPreprocessor creates a preprocessor that shells out to ffmpeg.
func NewPreprocessor(cfg Config) *Preprocessor {
	return NewPreprocessorWithRunner(cfg, execRunner{}, exec.LookPath)
}

// NewPreprocessorWithRunner injects process execution and binary lookup.
func NewPreprocessorWithRunner(cfg Config, runner Runner, lookPath func(string) (string, error)) *Preprocessor {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = DefaultFFmpegPath
	}
	if cfg.ThresholdBytes <= 0 {
		cfg.ThresholdBytes = DefaultThresholdBytes
	}
	return &Preprocessor{cfg: cfg, runner: runner, lookPath: lookPath}
}

// Prepare returns the path to send upstream. Files at or under the threshold pass
// through. Larger files are re-encoded to mono 32 kbps MP3 next to the input.
// A missing ffmpeg or a failed encode degrades to the original file.
func (p *Preprocessor) Prepare(ctx context.Context, path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat audio: %w", err)
	}
	if info.Size() <= p.cfg.ThresholdBytes {
		return Result{Path: path}, nil
	}

	log := trace.Logger(ctx).With("path", path, "size", info.Size())
	log.Info("large audio, compressing", "size_mb", fmt.Sprintf("%.2f", float64(info.Size())/(1024*1024)))
	bin, err := p.lookPath(p.cfg.FFmpegPath)
	if err != nil {
		log.Warn("ffmpeg not found, sending original audio", "error", err)
		return Result{Path: path}, nil
	}

	out := CompressedPath(path)
	if err := p.runner.Run(ctx, bin, Args(path, out)...); err != nil {
		if rmErr := os.Remove(out); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn("remove partial compressed audio failed", "output", out, "error", rmErr)
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		log.Warn("ffmpeg failed, sending original audio", "error", err)
		return Result{Path: path}, nil
	}

	log.Debug("audio compressed", "output", out)
	return Result{Path: out, Compressed: true}, nil
}

// CompressedPath returns the sibling path used for the re-encoded file.
func CompressedPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + CompressedSuffix
}

// Args builds the ffmpeg argument list for a compression run.
func Args(in, out string) []string {
	return []string{
		"-y", "-i", in,
		"-acodec", audioCodec,
		"-b:a", audioBitrate,
		"-ac", audioChannels,
		"-ar", audioRate,
		out,
	}
}
