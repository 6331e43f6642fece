// Package retention prunes old solve history and cached explanations.
package retention

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultRetention is how long history and cached explanations are kept.
	DefaultRetention = 30 * 24 * time.Hour
	// DefaultInterval is the sweep period.
	DefaultInterval = time.Hour
)

// Repository is the part of the store the worker prunes.
type Repository interface {
	DeleteHistoryBefore(ctx context.Context, t time.Time) (int64, error)
	DeleteExplanationsBefore(ctx context.Context, t time.Time) (int64, error)
}

// Worker periodically deletes rows older than the retention window.
type Worker struct {
	repo      Repository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewWorker creates a worker. Non-positive durations select the defaults.
func NewWorker(repo Repository, retention, interval time.Duration, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Worker{
		repo:      repo,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		logger:    logger,
	}
}

// Start runs the sweep loop in a goroutine until ctx is cancelled. The
// returned channel is closed once the loop has exited.
func (w *Worker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(w.interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		w.logger.Info("Retention worker started", "interval", w.interval, "retention", w.retention)

		for {
			select {
			case <-ticker.C:
				w.Sweep(ctx)
			case <-ctx.Done():
				w.logger.Info("Retention worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
	return done
}

// Sweep deletes everything older than the retention window once and
// reports how many rows went.
func (w *Worker) Sweep(ctx context.Context) (history, explanations int64) {
	cutoff := w.now().Add(-w.retention)

	history, err := w.repo.DeleteHistoryBefore(ctx, cutoff)
	if err != nil {
		w.logger.Error("Retention worker failed to prune history", "error", err)
	}

	explanations, err = w.repo.DeleteExplanationsBefore(ctx, cutoff)
	if err != nil {
		w.logger.Error("Retention worker failed to prune explanations", "error", err)
	}

	if history > 0 || explanations > 0 {
		w.logger.Info("Retention worker pruned rows",
			"history", history,
			"explanations", explanations,
			"cutoff", cutoff)
	}
	return history, explanations
}
