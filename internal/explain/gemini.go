package explain

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

var errMissingAPIKey = errors.New("gemini api key is empty")

// GeminiExplainer calls the Gemini API directly.
type GeminiExplainer struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiExplainer creates a Gemini-backed explainer.
func NewGeminiExplainer(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiExplainer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey == "" {
		return nil, errMissingAPIKey
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	logger.Info("Gemini explainer initialized", "model", model)
	return &GeminiExplainer{client: client, model: model, logger: logger}, nil
}

// Explain streams the model's answer to the tutoring prompt.
func (g *GeminiExplainer) Explain(ctx context.Context, req Request) iter.Seq2[*Chunk, error] {
	return func(yield func(*Chunk, error) bool) {
		prompt, err := BuildPrompt(req)
		if err != nil {
			yield(nil, err)
			return
		}

		cfg := &genai.GenerateContentConfig{
			// Fast answers; the prompt already spells out the steps.
			ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
		}

		g.logger.Debug("Gemini explain request", "model", g.model, "lang", req.Lang.String())
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), cfg) {
			if err != nil {
				yield(nil, fmt.Errorf("gemini generate: %w", err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(&Chunk{Text: text}, nil) {
				return
			}
		}
	}
}

// Close is a no-op; the Gemini client holds no long-lived connection.
func (g *GeminiExplainer) Close() {}
