package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audio2reu",
		Short: "Turn meeting recordings or notes into a transcript and structured minutes",
		Long: `audio2reu accepts an audio recording or raw text, transcribes the audio
through an OpenAI-compatible speech endpoint, and asks a chat model to write
structured meeting minutes.

Use "serve" to run the web front and "run" to process a single file locally.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newRunCommand())
	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

// newLogger builds the process logger. debug overrides level.
func newLogger(w io.Writer, format, level string, debug bool) *slog.Logger {
	lvl := parseLevel(level)
	if debug {
		lvl = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func debugFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("debug")
	return v
}
