// Package answer composes the citation-ready prompt and invokes the
// generation provider.
package answer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/domain"
	logpkg "github.com/kailas-cloud/askdex/internal/logger"
)

// Service turns curated results into a grounded answer.
type Service struct {
	generate Generator
}

// New creates an answer composer.
func New(generate Generator) *Service {
	return &Service{generate: generate}
}

// Compose builds the grounded prompt from the curated results and invokes
// the generation provider once, returning its text verbatim. A provider
// failure propagates to the caller.
func (s *Service) Compose(
	ctx context.Context, question string, curated []domain.SearchResult,
) (string, error) {
	prompt := BuildPrompt(question, curated)

	logpkg.FromContext(ctx).Debug("composed grounded prompt",
		zap.Int("sources", len(curated)),
		zap.Int("prompt_len", len(prompt)),
	)

	text, err := s.generate.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return text, nil
}
