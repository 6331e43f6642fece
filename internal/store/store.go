// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/quadlab/internal/domain"
)

// Repository defines the interface for persisting users, solve history and
// cached explanations.
type Repository interface {
	// GetUser retrieves a user by their user ID. Returns nil, nil when absent.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// RecordSolve appends a solved equation to the user's history.
	RecordSolve(ctx context.Context, entry *domain.HistoryEntry) error

	// ListHistory returns the user's most recent entries, newest first.
	ListHistory(ctx context.Context, userID string, limit int) ([]*domain.HistoryEntry, error)

	// GetExplanation returns a cached explanation. Returns nil, nil when absent.
	GetExplanation(ctx context.Context, key string) (*domain.Explanation, error)

	// PutExplanation stores or replaces a cached explanation.
	PutExplanation(ctx context.Context, e *domain.Explanation) error

	// DeleteHistoryBefore removes history entries created before t.
	DeleteHistoryBefore(ctx context.Context, t time.Time) (int64, error)

	// DeleteExplanationsBefore removes cached explanations created before t.
	DeleteExplanationsBefore(ctx context.Context, t time.Time) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
