package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/quadlab/internal/i18n"
	"github.com/ashureev/quadlab/internal/identity"
	"github.com/ashureev/quadlab/internal/plot"
	"github.com/ashureev/quadlab/internal/render"
	"github.com/ashureev/quadlab/internal/solver"
	"github.com/coder/websocket"
	"golang.org/x/text/language"
)

const (
	readLimit    = 4 << 10
	writeTimeout = 5 * time.Second
)

// Handler serves GET /ws/solve.
type Handler struct {
	sm            *SessionManager
	allowedOrigin string
	isDev         bool
	logger        *slog.Logger
}

// NewHandler creates a live recompute handler.
func NewHandler(sm *SessionManager, allowedOrigin string, isDev bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sm:            sm,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
		logger:        logger,
	}
}

// clientMessage is sent by the browser on every keystroke.
type clientMessage struct {
	Type string `json:"type"`
	Seq  uint64 `json:"seq,omitempty"`
	Lang string `json:"lang,omitempty"`
	solver.Input
}

// Result is the server's reply to one coefficients message. Replies are
// sent in the order the messages arrived.
type Result struct {
	Type         string              `json:"type"`
	Seq          uint64              `json:"seq"`
	Coefficients solver.Coefficients `json:"coefficients"`
	Solution     solver.Solution     `json:"solution"`
	Text         string              `json:"text"`
	Plot         plot.Plot           `json:"plot"`
	LaTeX        render.LaTeX        `json:"latex"`
}

// Compute builds the reply for one set of coefficients.
func Compute(seq uint64, c solver.Coefficients, lang language.Tag) Result {
	s := c.Solve()
	return Result{
		Type:         "result",
		Seq:          seq,
		Coefficients: c,
		Solution:     s,
		Text:         i18n.CategoryText(lang, s.Category),
		Plot:         plot.Sample(c),
		LaTeX:        render.Render(c, s),
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			h.logger.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()
	ws.SetReadLimit(readLimit)

	h.sm.Register(userID, sessionID, ws)
	defer h.sm.Unregister(userID, sessionID, ws)

	lang := i18n.Match(r.Header.Get("Accept-Language"))
	if q := r.URL.Query().Get("lang"); q != "" {
		lang = i18n.Parse(q)
	}

	h.readLoop(r.Context(), ws, userID, lang)
	h.logger.Info("Live session ended", "user_id", userID, "session_id", sessionID)
}

func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, userID string, lang language.Tag) {
	var seq uint64
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || ctx.Err() != nil {
				h.logger.Debug("WebSocket closed", "user_id", userID)
			} else {
				h.logger.Warn("WebSocket read error", "error", err, "user_id", userID)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if err := writeJSON(ctx, ws, map[string]string{"type": "error", "error": "invalid_message"}); err != nil {
				return
			}
			continue
		}

		var reply any
		switch msg.Type {
		case "coefficients":
			seq++
			if msg.Seq > 0 {
				seq = msg.Seq
			}
			if msg.Lang != "" {
				lang = i18n.Parse(msg.Lang)
			}
			reply = Compute(seq, msg.Coefficients(), lang)
		case "ping":
			reply = map[string]string{"type": "pong"}
		default:
			reply = map[string]string{"type": "error", "error": "unknown_type"}
		}

		if err := writeJSON(ctx, ws, reply); err != nil {
			h.logger.Debug("Failed to write live reply", "error", err, "user_id", userID)
			return
		}
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	h.logger.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

// writeJSON sends v. A value that fails to encode is replaced by an error
// frame so the session stays open; only transport errors are returned.
func writeJSON(ctx context.Context, ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode live reply", "error", err)
		data = []byte(`{"type":"error","error":"encode_failed"}`)
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}
