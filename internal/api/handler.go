// Package api provides HTTP handlers for the quadlab API.
//
//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ashureev/quadlab/internal/i18n"
	"github.com/ashureev/quadlab/internal/store"
	"golang.org/x/text/language"
)

const maxBodyBytes = 64 << 10

// Handler provides common handler utilities.
type Handler struct {
	repo        store.Repository
	defaultLang language.Tag
	logger      *slog.Logger
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, defaultLang string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:        repo,
		defaultLang: i18n.Parse(defaultLang),
		logger:      logger,
	}
}

// JSON writes a JSON response with the given status code. The body is
// encoded before the header is sent so an encoding failure still yields 500.
func JSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// lang picks the response language: an explicit code from the body, then
// the lang query parameter, then Accept-Language, then the server default.
func (h *Handler) lang(r *http.Request, explicit string) language.Tag {
	if explicit != "" {
		return i18n.Parse(explicit)
	}
	if q := r.URL.Query().Get("lang"); q != "" {
		return i18n.Parse(q)
	}
	if al := r.Header.Get("Accept-Language"); al != "" {
		return i18n.Match(al)
	}
	return h.defaultLang
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
