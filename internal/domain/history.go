package domain

import (
	"time"

	"github.com/ashureev/quadlab/internal/solver"
)

// HistoryEntry records one solved equation for a user.
type HistoryEntry struct {
	ID           string              `json:"id"`
	UserID       string              `json:"-"`
	SessionID    string              `json:"session_id"`
	Coefficients solver.Coefficients `json:"coefficients"`
	Solution     solver.Solution     `json:"solution"`
	CreatedAt    time.Time           `json:"created_at"`
}
