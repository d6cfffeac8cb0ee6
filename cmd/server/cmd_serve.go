package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/audio2reu/internal/config"
	"github.com/GriffinCanCode/audio2reu/internal/server"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web front, log channels and health service",
		Long: `Start the HTTP server.

Routes:
  GET  /                 upload page
  GET  /ws/{client_id}   per-client progress channel
  POST /process          run a job and answer with the result
  POST /process/async    acknowledge, run in background, push the result
  GET  /api/health       service status

The gRPC health service listens on HEALTH_GRPC_ADDR unless it is empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			slog.SetDefault(newLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel, debugFlag(cmd)))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		slog.Warn("ALBERT_API_KEY is not set; jobs will fail at the first remote call")
	}

	health := server.NewHealth()
	srv := server.New(a.manager, a.registry, a.renderer, a.prompts, server.Options{
		DefaultLanguage: cfg.DefaultLanguage,
		DefaultModel:    cfg.DefaultModel,
		Models:          modelKeys(),
		MaxUploadBytes:  cfg.MaxUploadBytes(),
		Upstreams:       a.remote,
		Health:          health,
	})
	httpServer := srv.NewHTTPServer(cfg.HTTPAddr, cfg.HTTPWriteTimeout)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", cfg.HTTPAddr, "upstream", cfg.APIBaseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.HealthGRPCAddr != "" {
		g.Go(func() error { return health.Serve(gctx, cfg.HealthGRPCAddr) })
	}

	if cfg.SummaryPromptFile != "" {
		g.Go(func() error {
			// A failed watch keeps the last loaded prompt.
			if err := a.prompts.Watch(gctx); err != nil {
				slog.Warn("summary prompt watch stopped", "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down", "jobs_in_flight", a.manager.InFlight())
		health.SetServing(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
		if err := a.manager.Shutdown(shutdownCtx); err != nil {
			slog.Error("job shutdown error", "error", err, "jobs_in_flight", a.manager.InFlight())
		}
		return nil
	})

	return g.Wait()
}
