package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/audio2reu/internal/config"
	"github.com/GriffinCanCode/audio2reu/internal/logchan"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator"
	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

type runOptions struct {
	text          string
	language      string
	model         string
	instruction   string
	whisperPrompt string
	out           string
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [audio-file]",
		Short: "Process one recording or text locally and print the result",
		Long: `Process a single job without the web front.

Progress lines go to stderr; the rendered HTML goes to stdout or --out.
Pass an audio file, or --text for a transcript you already have.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel, debugFlag(cmd)))

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runOnce(cmd, cfg, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.text, "text", "", "Raw text to summarize instead of an audio file")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Audio language (default from DEFAULT_LANGUAGE)")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Summary model key (mistral, gpt)")
	cmd.Flags().StringVar(&opts.instruction, "prompt", "", "Custom summarization instruction")
	cmd.Flags().StringVar(&opts.whisperPrompt, "whisper-prompt", "", "Vocabulary hint for transcription")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the HTML result to this file")
	return cmd
}

func runOnce(cmd *cobra.Command, cfg *config.Config, path string, opts runOptions) error {
	if path != "" && opts.text != "" {
		return fmt.Errorf("pass either an audio file or --text, not both")
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	sub := orchestrator.Submission{
		ClientID:       "cli",
		InputType:      string(orchestrator.InputText),
		RawText:        opts.text,
		Language:       opts.language,
		ModelKey:       opts.model,
		Instruction:    opts.instruction,
		GuidancePrompt: opts.whisperPrompt,
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open audio: %w", err)
		}
		defer f.Close()
		sub.InputType = string(orchestrator.InputAudio)
		sub.Upload = &orchestrator.Upload{Filename: filepath.Base(path), Body: f}
	}

	ctx, _ := trace.EnsureContext(cmd.Context())
	job, err := a.manager.Prepare(ctx, sub)
	if err != nil {
		return err
	}

	html, err := a.manager.Run(ctx, job, logchan.NewWriterSink(cmd.ErrOrStderr()), orchestrator.Inline{})
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), opts.out, html)
}

func writeResult(stdout io.Writer, path, html string) error {
	if path == "" {
		_, err := io.WriteString(stdout, html)
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
