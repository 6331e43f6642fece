package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/ashureev/quadlab/internal/explain"
	"github.com/ashureev/quadlab/internal/identity"
	"github.com/ashureev/quadlab/internal/solver"
	"github.com/go-chi/chi/v5"
)

// ExplainHandler serves AI explanations of an equation.
type ExplainHandler struct {
	*Handler
	svc     *explain.Service
	limiter *explain.RateLimiter
	busy    busySet
}

// busySet records the users with an outstanding explanation.
type busySet struct {
	mu    sync.Mutex
	users map[string]struct{}
}

// acquire marks userID busy. It reports false if the user already is.
func (b *busySet) acquire(userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[userID]; ok {
		return false
	}
	if b.users == nil {
		b.users = make(map[string]struct{})
	}
	b.users[userID] = struct{}{}
	return true
}

func (b *busySet) release(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.users, userID)
}

// NewExplainHandler creates an explain handler. limiter may be nil.
func NewExplainHandler(base *Handler, svc *explain.Service, limiter *explain.RateLimiter) *ExplainHandler {
	return &ExplainHandler{Handler: base, svc: svc, limiter: limiter}
}

// RegisterRoutes registers explanation routes.
func (h *ExplainHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/explain", h.Explain)
	r.Post("/api/explain/stream", h.Stream)
}

type explainRequest struct {
	solver.Input
	Lang string `json:"lang"`
}

// begin validates the request and takes the caller's busy lock. The
// returned release must be called when ok is true.
func (h *ExplainHandler) begin(w http.ResponseWriter, r *http.Request) (req explain.Request, release func(), ok bool) {
	var body explainRequest
	if err := decodeJSON(r, &body); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return req, nil, false
	}

	c := body.Coefficients()
	if c.AllZero() {
		Error(w, http.StatusBadRequest, "coefficients_required")
		return req, nil, false
	}

	userID := identity.UserIDFromContext(r.Context())
	if h.limiter != nil && !h.limiter.Allow(userID) {
		h.logger.Warn("Explanation rate limited", "user_id", userID)
		Error(w, http.StatusTooManyRequests, "rate_limited")
		return req, nil, false
	}

	if !h.busy.acquire(userID) {
		h.logger.Warn("Explanation already in progress", "user_id", userID)
		Error(w, http.StatusConflict, "explanation_in_progress")
		return req, nil, false
	}

	release = func() { h.busy.release(userID) }
	return explain.Request{Coefficients: c, Lang: h.lang(r, body.Lang)}, release, true
}

// Explain returns the whole explanation at once.
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	req, release, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer release()

	h.logger.Info("Explanation request",
		"user_id", identity.UserIDFromContext(r.Context()),
		"session_id", identity.SessionIDFromContext(r.Context()),
		"lang", req.Lang.String())

	JSON(w, http.StatusOK, h.svc.Explain(r.Context(), req))
}

// Stream relays the explanation as server-sent events: one "message" event
// per chunk, then a "done" event carrying the final explanation.
func (h *ExplainHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	req, release, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer release()

	userID := identity.UserIDFromContext(r.Context())
	h.logger.Info("Explanation stream request", "user_id", userID, "lang", req.Lang.String())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	chunks := 0
	final := h.svc.Stream(r.Context(), req, func(chunk explain.Chunk) bool {
		if err := writeSSEJSON(w, "message", chunk); err != nil {
			h.logger.Warn("failed to write SSE message event", "error", err, "user_id", userID)
			return false
		}
		flusher.Flush()
		chunks++
		return true
	})

	if r.Context().Err() != nil {
		h.logger.Info("Explanation stream disconnected", "user_id", userID, "chunks", chunks)
		return
	}
	if err := writeSSEJSON(w, "done", final); err != nil {
		h.logger.Warn("failed to write SSE done event", "error", err, "user_id", userID)
		return
	}
	flusher.Flush()
}

func writeSSE(w io.Writer, event, data string) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func writeSSEJSON(w io.Writer, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	return writeSSE(w, event, string(data))
}
