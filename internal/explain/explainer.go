package explain

import (
	"context"
	"iter"
)

// Explainer generates explanation text for an equation.
// Implemented by the Gemini backend and the gRPC sidecar client.
type Explainer interface {
	// Explain streams explanation text. The sequence ends after the first error.
	Explain(ctx context.Context, req Request) iter.Seq2[*Chunk, error]

	// Close releases resources.
	Close()
}

var (
	_ Explainer = (*GeminiExplainer)(nil)
	_ Explainer = (*GrpcClient)(nil)
)
