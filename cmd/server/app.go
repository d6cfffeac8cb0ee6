package main

import (
	"fmt"
	"sort"

	"github.com/GriffinCanCode/audio2reu/internal/config"
	"github.com/GriffinCanCode/audio2reu/internal/inference"
	"github.com/GriffinCanCode/audio2reu/internal/logchan"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator/audio"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator/summary"
	"github.com/GriffinCanCode/audio2reu/internal/orchestrator/transcript"
	"github.com/GriffinCanCode/audio2reu/internal/prompt"
	"github.com/GriffinCanCode/audio2reu/internal/render"
	"github.com/GriffinCanCode/audio2reu/internal/resilience"
)

// app holds the components shared by serve and run.
type app struct {
	cfg      *config.Config
	registry *logchan.Registry
	prompts  *prompt.Store
	remote   *inference.Client
	renderer *render.Renderer
	manager  *orchestrator.Manager
}

func newApp(cfg *config.Config) (*app, error) {
	prompts, err := prompt.NewStore(cfg.SummaryPromptFile)
	if err != nil {
		return nil, fmt.Errorf("load summary prompt: %w", err)
	}
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	remote := inference.New(inference.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.APIBaseURL,
		Breaker: resilience.Config{Threshold: cfg.BreakerThreshold},
	})
	pre := audio.NewPreprocessor(audio.Config{
		FFmpegPath:     cfg.FFmpegPath,
		ThresholdBytes: cfg.CompressThresholdBytes(),
	})
	registry := logchan.NewRegistry(logchan.DefaultWriteTimeout)

	manager := orchestrator.New(
		transcript.New(remote, pre, transcript.Config{
			Model:           cfg.TranscriptionModel,
			DefaultLanguage: cfg.DefaultLanguage,
		}),
		summary.New(remote, prompts),
		renderer,
		registry,
		orchestrator.Config{
			TempDir:         cfg.TempDir,
			DefaultLanguage: cfg.DefaultLanguage,
			DefaultModelKey: cfg.DefaultModel,
		},
	)

	return &app{
		cfg:      cfg,
		registry: registry,
		prompts:  prompts,
		remote:   remote,
		renderer: renderer,
		manager:  manager,
	}, nil
}

// modelKeys lists the selectable summary models in a stable order.
func modelKeys() []string {
	keys := make([]string, 0, len(summary.Models))
	for k := range summary.Models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
