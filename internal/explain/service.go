package explain

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/quadlab/internal/domain"
	"github.com/ashureev/quadlab/internal/i18n"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds one upstream explanation call.
const DefaultTimeout = 60 * time.Second

var (
	errDisabled = errors.New("explanation backend not configured")
	errEmpty    = errors.New("explanation backend returned no text")
)

// Cache stores finished explanations.
type Cache interface {
	GetExplanation(ctx context.Context, key string) (*domain.Explanation, error)
	PutExplanation(ctx context.Context, e *domain.Explanation) error
}

// Service turns backend output into a user-facing explanation. It never
// returns an error: any failure becomes a fixed localized fallback text.
type Service struct {
	explainer Explainer
	cache     Cache
	group     singleflight.Group
	timeout   time.Duration
	logger    *slog.Logger
}

// NewService creates a service. explainer and cache may be nil; a nil
// explainer makes every request fall back.
func NewService(explainer Explainer, cache Cache, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		explainer: explainer,
		cache:     cache,
		timeout:   timeout,
		logger:    logger,
	}
}

// Enabled reports whether an explanation backend is configured.
func (s *Service) Enabled() bool {
	return s.explainer != nil
}

// Close releases the backend.
func (s *Service) Close() {
	if s.explainer != nil {
		s.explainer.Close()
	}
}

// Explain returns the explanation for req. Concurrent identical requests
// share a single upstream call.
func (s *Service) Explain(ctx context.Context, req Request) Explanation {
	key := CacheKey(req)
	if cached, ok := s.lookup(ctx, key); ok {
		return Explanation{Text: cached, Lang: req.Lang.String(), Cached: true}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Detached from the first caller so its cancellation does not fail
		// the callers sharing this flight.
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		text, err := s.generate(callCtx, req)
		if err != nil {
			return nil, err
		}
		s.store(callCtx, key, req, text)
		return text, nil
	})
	if err != nil {
		return s.fallback(req, err)
	}

	return Explanation{Text: v.(string), Lang: req.Lang.String()}
}

// Stream relays explanation chunks to yield as they arrive and returns the
// final explanation. On failure the fallback text is yielded as a last chunk
// with Fallback set. yield returning false stops the stream.
func (s *Service) Stream(ctx context.Context, req Request, yield func(Chunk) bool) Explanation {
	key := CacheKey(req)
	if cached, ok := s.lookup(ctx, key); ok {
		yield(Chunk{Text: cached})
		return Explanation{Text: cached, Lang: req.Lang.String(), Cached: true}
	}

	if s.explainer == nil {
		out := s.fallback(req, errDisabled)
		yield(Chunk{Text: out.Text, Fallback: true})
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var sb strings.Builder
	for chunk, err := range s.explainer.Explain(ctx, req) {
		if err != nil {
			out := s.fallback(req, err)
			yield(Chunk{Text: out.Text, Fallback: true})
			return out
		}
		if chunk == nil || chunk.Text == "" {
			continue
		}
		sb.WriteString(chunk.Text)
		if !yield(Chunk{Text: chunk.Text}) {
			return Explanation{Text: sb.String(), Lang: req.Lang.String()}
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		out := s.fallback(req, errEmpty)
		yield(Chunk{Text: out.Text, Fallback: true})
		return out
	}
	s.store(ctx, key, req, text)
	return Explanation{Text: text, Lang: req.Lang.String()}
}

func (s *Service) generate(ctx context.Context, req Request) (string, error) {
	if s.explainer == nil {
		return "", errDisabled
	}
	var sb strings.Builder
	for chunk, err := range s.explainer.Explain(ctx, req) {
		if err != nil {
			return "", err
		}
		if chunk != nil {
			sb.WriteString(chunk.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", errEmpty
	}
	return sb.String(), nil
}

func (s *Service) fallback(req Request, err error) Explanation {
	key := i18n.ExplainFailed
	if errors.Is(err, errEmpty) {
		key = i18n.ExplainEmpty
	} else {
		s.logger.Error("Explanation failed", "error", err, "lang", req.Lang.String())
	}
	return Explanation{
		Text:     i18n.Text(req.Lang, key),
		Lang:     req.Lang.String(),
		Fallback: true,
	}
}

func (s *Service) lookup(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	e, err := s.cache.GetExplanation(ctx, key)
	if err != nil {
		s.logger.Warn("Explanation cache lookup failed", "error", err, "key", key)
		return "", false
	}
	if e == nil || e.Text == "" {
		return "", false
	}
	return e.Text, true
}

func (s *Service) store(ctx context.Context, key string, req Request, text string) {
	if s.cache == nil {
		return
	}
	err := s.cache.PutExplanation(context.WithoutCancel(ctx), &domain.Explanation{
		Key:          key,
		Lang:         req.Lang.String(),
		Coefficients: req.Coefficients,
		Text:         text,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		s.logger.Warn("Failed to cache explanation", "error", err, "key", key)
	}
}
