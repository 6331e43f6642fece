package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ashureev/quadlab/internal/domain"
	"github.com/ashureev/quadlab/internal/i18n"
	"github.com/ashureev/quadlab/internal/identity"
	"github.com/ashureev/quadlab/internal/plot"
	"github.com/ashureev/quadlab/internal/render"
	"github.com/ashureev/quadlab/internal/solver"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// SolveHandler serves the solver, plot, history and config endpoints.
type SolveHandler struct {
	*Handler
	aiEnabled bool
}

// NewSolveHandler creates a solve handler. aiEnabled is reported to the
// frontend through /api/config.
func NewSolveHandler(base *Handler, aiEnabled bool) *SolveHandler {
	return &SolveHandler{Handler: base, aiEnabled: aiEnabled}
}

// RegisterRoutes registers solver routes.
func (h *SolveHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/solve", h.Solve)
	r.Get("/api/plot", h.Plot)
	r.Get("/api/history", h.History)
	r.Get("/api/config", h.GetConfig)
}

type solveRequest struct {
	solver.Input
	Lang string `json:"lang"`
}

// SolveResponse is the body of POST /api/solve.
type SolveResponse struct {
	Coefficients solver.Coefficients `json:"coefficients"`
	Solution     solver.Solution     `json:"solution"`
	LaTeX        render.LaTeX        `json:"latex"`
	Text         string              `json:"text"`
}

// NewSolveResponse assembles the display fields for a solved equation.
func NewSolveResponse(c solver.Coefficients, s solver.Solution, text string) SolveResponse {
	return SolveResponse{
		Coefficients: c,
		Solution:     s,
		LaTeX:        render.Render(c, s),
		Text:         text,
	}
}

// Solve classifies the submitted equation and records it in the caller's history.
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	c := req.Coefficients()
	s := c.Solve()
	tag := h.lang(r, req.Lang)

	h.record(r, c, s)
	JSON(w, http.StatusOK, NewSolveResponse(c, s, i18n.CategoryText(tag, s.Category)))
}

// record appends to history. Failures are logged and do not fail the solve.
func (h *SolveHandler) record(r *http.Request, c solver.Coefficients, s solver.Solution) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		return
	}
	entry := &domain.HistoryEntry{
		ID:           uuid.NewString(),
		UserID:       userID,
		SessionID:    identity.SessionIDFromContext(r.Context()),
		Coefficients: c,
		Solution:     s,
		CreatedAt:    time.Now(),
	}
	if err := h.repo.RecordSolve(r.Context(), entry); err != nil {
		h.logger.Warn("Failed to record solve", "error", err, "user_id", userID)
	}
}

type plotResponse struct {
	plot.Plot
	Message string `json:"message,omitempty"`
}

// Plot samples the curve for the coefficients in the query string.
func (h *SolveHandler) Plot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := solver.ParseCoefficients(q.Get("a"), q.Get("b"), q.Get("c"))

	resp := plotResponse{Plot: plot.Sample(c)}
	if resp.Placeholder {
		resp.Message = i18n.Text(h.lang(r, ""), i18n.PlotPlaceholder)
	}
	JSON(w, http.StatusOK, resp)
}

// History returns the caller's recent solves, newest first.
func (h *SolveHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := h.repo.ListHistory(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Failed to list history", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if entries == nil {
		entries = []*domain.HistoryEntry{}
	}
	JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// GetConfig returns the server configuration for the frontend.
func (h *SolveHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	langs := make([]string, 0, len(i18n.Supported()))
	for _, tag := range i18n.Supported() {
		langs = append(langs, tag.String())
	}
	JSON(w, http.StatusOK, map[string]any{
		"ai_enabled":           h.aiEnabled,
		"default_coefficients": solver.DefaultCoefficients,
		"default_lang":         h.defaultLang.String(),
		"languages":            langs,
		"idle_explanation":     i18n.Text(h.lang(r, ""), i18n.ExplainIdle),
	})
}
