package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// The (EmbeddingResult, error) pair is the recoverable failure signal for
// the embedding path: callers apply their own fallback policy instead of
// aborting the request.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
