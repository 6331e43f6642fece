package domain

import (
	"time"

	"github.com/ashureev/quadlab/internal/solver"
)

// Explanation is a cached AI explanation for one equation and language.
type Explanation struct {
	Key          string
	Lang         string
	Coefficients solver.Coefficients
	Text         string
	CreatedAt    time.Time
}
