// Package health aggregates provider availability checks.
package health

import "context"

// EmbeddingChecker verifies embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// Status is the health report returned to callers.
type Status struct {
	Healthy   bool   `json:"healthy"`
	Embedding string `json:"embedding"`
}

// Service checks dependency health.
type Service struct {
	embedding EmbeddingChecker
}

// New creates a health service. embedding may be nil when no checker is wired.
func New(embedding EmbeddingChecker) *Service {
	return &Service{embedding: embedding}
}

// Check probes the embedding provider and reports overall health.
func (s *Service) Check(ctx context.Context) Status {
	status := Status{Healthy: true, Embedding: "ok"}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			status.Healthy = false
			status.Embedding = err.Error()
		}
	}

	return status
}
