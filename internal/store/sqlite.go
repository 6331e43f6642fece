package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/quadlab/internal/domain"
	"github.com/ashureev/quadlab/internal/shared"
	"github.com/ashureev/quadlab/internal/solver"
	_ "modernc.org/sqlite"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	retry shared.RetryPolicy
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, retry: shared.DefaultRetryPolicy()}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		a REAL NOT NULL,
		b REAL NOT NULL,
		c REAL NOT NULL,
		category TEXT NOT NULL,
		delta REAL,
		x1 REAL,
		x2 REAL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_user ON history(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);

	CREATE TABLE IF NOT EXISTS explanations (
		cache_key TEXT PRIMARY KEY,
		lang TEXT NOT NULL,
		a REAL NOT NULL,
		b REAL NOT NULL,
		c REAL NOT NULL,
		body TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_explanations_created ON explanations(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetUser retrieves a user by their user ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username, last_seen_at, created_at, updated_at
		FROM users WHERE user_id = ?`

	var user domain.User
	var lastSeen, createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&user.UserID, &user.Username, &lastSeen, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.LastSeenAt = time.Unix(lastSeen, 0)
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)
	return &user, nil
}

// UpsertUser creates or updates a user record.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (user_id, username, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	err := s.retry.Do(ctx, "upsert user", func() error {
		_, err := s.db.ExecContext(ctx, query,
			user.UserID, user.Username, user.LastSeenAt.Unix(),
			user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a user.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error {
	query := `UPDATE users SET last_seen_at = ?, updated_at = ? WHERE user_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), userID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "user_id", userID)
	}
	return nil
}

// RecordSolve appends a solved equation to the user's history.
func (s *SQLiteStore) RecordSolve(ctx context.Context, entry *domain.HistoryEntry) error {
	query := `
	INSERT INTO history (id, user_id, session_id, a, b, c, category, delta, x1, x2, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// SQLite stores NaN as NULL.
	var delta, x1, x2 any
	if !math.IsNaN(entry.Solution.Delta) {
		delta = entry.Solution.Delta
	}
	if r1, r2, ok := entry.Solution.Roots(); ok {
		x1, x2 = r1, r2
	}
	c := entry.Coefficients

	err := s.retry.Do(ctx, "record solve", func() error {
		_, err := s.db.ExecContext(ctx, query,
			entry.ID, entry.UserID, entry.SessionID,
			c.A, c.B, c.C,
			entry.Solution.Category.String(), delta, x1, x2,
			entry.CreatedAt.UnixMilli(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("record solve: %w", err)
	}
	return nil
}

// ListHistory returns the user's most recent entries, newest first.
func (s *SQLiteStore) ListHistory(ctx context.Context, userID string, limit int) ([]*domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	query := `
		SELECT id, user_id, session_id, a, b, c, category, delta, x1, x2, created_at
		FROM history WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close history rows", "error", closeErr)
		}
	}()

	var entries []*domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var category string
		var delta, x1, x2 sql.NullFloat64
		var createdAt int64

		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.SessionID,
			&entry.Coefficients.A, &entry.Coefficients.B, &entry.Coefficients.C,
			&category, &delta, &x1, &x2, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}

		var cat solver.Category
		if err := cat.UnmarshalText([]byte(category)); err != nil {
			return nil, fmt.Errorf("history row %s: %w", entry.ID, err)
		}
		// Roots are rebuilt from the coefficients.
		entry.Solution = entry.Coefficients.Solve()
		if entry.Solution.Category != cat {
			slog.Warn("history category mismatch", "id", entry.ID, "stored", category, "computed", entry.Solution.Category)
		}
		entry.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// GetExplanation returns a cached explanation.
func (s *SQLiteStore) GetExplanation(ctx context.Context, key string) (*domain.Explanation, error) {
	query := `
		SELECT cache_key, lang, a, b, c, body, created_at
		FROM explanations WHERE cache_key = ?`

	var e domain.Explanation
	var createdAt int64
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&e.Key, &e.Lang, &e.Coefficients.A, &e.Coefficients.B, &e.Coefficients.C,
		&e.Text, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan explanation: %w", err)
	}
	e.CreatedAt = time.Unix(createdAt, 0)
	return &e, nil
}

// PutExplanation stores or replaces a cached explanation.
func (s *SQLiteStore) PutExplanation(ctx context.Context, e *domain.Explanation) error {
	query := `
	INSERT INTO explanations (cache_key, lang, a, b, c, body, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(cache_key) DO UPDATE SET
		body = excluded.body,
		created_at = excluded.created_at`

	c := e.Coefficients
	err := s.retry.Do(ctx, "put explanation", func() error {
		_, err := s.db.ExecContext(ctx, query, e.Key, e.Lang, c.A, c.B, c.C, e.Text, e.CreatedAt.Unix())
		return err
	})
	if err != nil {
		return fmt.Errorf("put explanation: %w", err)
	}
	return nil
}

// DeleteHistoryBefore removes history entries created before t.
func (s *SQLiteStore) DeleteHistoryBefore(ctx context.Context, t time.Time) (int64, error) {
	n, err := s.deleteBefore(ctx, "delete history", `DELETE FROM history WHERE created_at < ?`, t.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete history: %w", err)
	}
	return n, nil
}

// DeleteExplanationsBefore removes cached explanations created before t.
func (s *SQLiteStore) DeleteExplanationsBefore(ctx context.Context, t time.Time) (int64, error) {
	n, err := s.deleteBefore(ctx, "delete explanations", `DELETE FROM explanations WHERE created_at < ?`, t.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete explanations: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) deleteBefore(ctx context.Context, op, query string, cutoff int64) (int64, error) {
	var n int64
	err := s.retry.Do(ctx, op, func() error {
		result, err := s.db.ExecContext(ctx, query, cutoff)
		if err != nil {
			return err
		}
		n, err = result.RowsAffected()
		return err
	})
	return n, err
}
