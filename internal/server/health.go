package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/GriffinCanCode/audio2reu/internal/trace"
)

// Health serves the standard gRPC health protocol for orchestrators and
// mirrors the serving flag for the HTTP health endpoint.
type Health struct {
	srv     *grpc.Server
	status  *health.Server
	serving atomic.Bool
}

// NewHealth creates a health service that reports SERVING.
func NewHealth() *Health {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(trace.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(trace.StreamServerInterceptor()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	h := &Health{srv: srv, status: hs}
	h.SetServing(true)
	return h
}

// SetServing flips both the overall and the named service status.
func (h *Health) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.serving.Store(ok)
	h.status.SetServingStatus("", st)
	h.status.SetServingStatus(HealthService, st)
}

// Serving reports the last status set.
func (h *Health) Serving() bool { return h.serving.Load() }

// Serve listens on addr until ctx ends, then stops gracefully.
func (h *Health) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("health listen: %w", err)
	}
	slog.Info("gRPC health server starting", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		h.status.Shutdown()
		h.srv.GracefulStop()
	}()

	if err := h.srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("health serve: %w", err)
	}
	return nil
}
