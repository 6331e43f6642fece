// Package explain produces the step-by-step natural-language explanation of
// an equation using an external text-generation service.
package explain

import (
	"strconv"
	"strings"

	"github.com/ashureev/quadlab/internal/solver"
	"golang.org/x/text/language"
)

// Request asks for an explanation of one equation in one language.
type Request struct {
	Coefficients solver.Coefficients
	Lang         language.Tag
}

// Chunk is a piece of streamed explanation text. A chunk with Fallback set
// replaces everything streamed before it.
type Chunk struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback,omitempty"`
}

// Explanation is the final explanation shown to the user.
type Explanation struct {
	Text     string `json:"text"`
	Lang     string `json:"lang"`
	Fallback bool   `json:"fallback"`
	Cached   bool   `json:"cached"`
}

// CacheKey identifies a request for caching and de-duplication.
func CacheKey(req Request) string {
	c := req.Coefficients
	return strings.Join([]string{
		req.Lang.String(),
		strconv.FormatFloat(c.A, 'g', -1, 64),
		strconv.FormatFloat(c.B, 'g', -1, 64),
		strconv.FormatFloat(c.C, 'g', -1, 64),
	}, "|")
}
