// Quadlab - interactive quadratic equation tutor server
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/quadlab/internal/api"
	"github.com/ashureev/quadlab/internal/config"
	"github.com/ashureev/quadlab/internal/explain"
	"github.com/ashureev/quadlab/internal/identity"
	"github.com/ashureev/quadlab/internal/live"
	"github.com/ashureev/quadlab/internal/middleware"
	"github.com/ashureev/quadlab/internal/retention"
	"github.com/ashureev/quadlab/internal/store"
	"github.com/ashureev/quadlab/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
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

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	healthHandler := api.NewHealthHandler(repo)

	explainer := newExplainer(cfg, logger, healthHandler)
	svc := explain.NewService(explainer, repo, cfg.Explain.Timeout, logger)
	defer svc.Close()
	if !svc.Enabled() {
		slog.Info("AI features disabled (EXPLAINER_ADDR and GEMINI_API_KEY not set or connection failed)")
	}

	limiter := explain.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	defer limiter.Close()

	sm := live.NewSessionManager()

	// Initialize handlers.
	baseHandler := api.NewHandler(repo, cfg.DefaultLang, logger)
	solveHandler := api.NewSolveHandler(baseHandler, svc.Enabled())
	explainHandler := api.NewExplainHandler(baseHandler, svc, limiter)
	wsHandler := live.NewHandler(sm, cfg.FrontendURL, cfg.IsDevelopment(), logger)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins(), identity.SessionHeaderName))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// Everything else carries an anonymous identity.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

		solveHandler.RegisterRoutes(r)
		explainHandler.RegisterRoutes(r)

		// WebSocket endpoint.
		r.Get("/ws/solve", wsHandler.ServeHTTP)
	})

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// SSE explanations stream for up to EXPLAIN_TIMEOUT, so no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(r, "quadlab"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start retention worker.
	workerDone := retention.NewWorker(repo, cfg.Retention.History, cfg.Retention.Interval, logger).Start(ctx)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sm.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	<-workerDone

	slog.Info("Server stopped successfully")
}

// newExplainer picks the explanation backend: the gRPC sidecar when
// EXPLAINER_ADDR is set, otherwise Gemini when a key is present. It returns
// nil when neither is available.
func newExplainer(cfg *config.Config, logger *slog.Logger, health *api.HealthHandler) explain.Explainer {
	if cfg.Explain.Addr != "" {
		slog.Info("Connecting to explanation sidecar via gRPC", "address", cfg.Explain.Addr)
		client, err := explain.NewGrpcClient(explain.DefaultGrpcClientConfig(cfg.Explain.Addr), logger)
		if err != nil {
			slog.Warn("Failed to connect to explanation sidecar, AI features will be disabled", "error", err)
			return nil
		}
		health.WithCheck("explainer", func(ctx context.Context) error {
			status, err := client.Health(ctx)
			if err != nil {
				return err
			}
			if status != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("explainer status %s", status)
			}
			return nil
		})
		return client
	}

	if cfg.Explain.APIKey != "" {
		gemini, err := explain.NewGeminiExplainer(context.Background(), cfg.Explain.APIKey, cfg.Explain.Model, logger)
		if err != nil {
			slog.Warn("Failed to initialize Gemini, AI features will be disabled", "error", err)
			return nil
		}
		slog.Info("Gemini explainer initialized", "model", cfg.Explain.Model)
		return gemini
	}

	return nil
}
