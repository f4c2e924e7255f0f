package domain

import "errors"

var (
	// ErrEmptyQuestion signals a request without a question.
	ErrEmptyQuestion = errors.New("question is required")
	// ErrSearchNotConfigured signals missing web search credentials.
	ErrSearchNotConfigured = errors.New("search credentials not configured")
	// ErrSearchProviderError signals a web search provider failure.
	ErrSearchProviderError = errors.New("search provider error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
)
