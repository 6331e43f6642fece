// Quadlab explanation sidecar: serves step-by-step explanations over gRPC.
package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/quadlab/internal/config"
	"github.com/ashureev/quadlab/internal/explain"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := explain.NewGeminiExplainer(ctx, cfg.Explain.APIKey, cfg.Explain.Model, logger)
	if err != nil {
		slog.Error("Failed to initialize Gemini", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	lis, err := net.Listen("tcp", cfg.Explain.Listen)
	if err != nil {
		slog.Error("Failed to listen", "addr", cfg.Explain.Listen, "error", err)
		os.Exit(1)
	}

	// Clients ping every 2 minutes; the default 5 minute minimum would
	// answer them with GOAWAY.
	gs := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             time.Minute,
			PermitWithoutStream: true,
		}),
	)
	srv := explain.NewServer(backend, logger)
	srv.Register(gs)

	go func() {
		slog.Info("Explanation sidecar listening", "addr", lis.Addr().String(), "model", cfg.Explain.Model)
		if err := gs.Serve(lis); err != nil {
			slog.Error("gRPC server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")
	srv.Shutdown()

	done := make(chan struct{})
	go func() {
		gs.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		slog.Warn("Graceful stop timed out, forcing")
		gs.Stop()
	}

	slog.Info("Sidecar stopped successfully")
}
