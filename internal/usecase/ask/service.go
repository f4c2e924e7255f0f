// Package ask sequences the question answering pipeline:
// web search, relevance filtering, grounded generation.
package ask

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/domain"
	logpkg "github.com/kailas-cloud/askdex/internal/logger"
)

// DefaultResultCount is the number of web results requested per question.
const DefaultResultCount = 10

// Degraded-mode texts returned when search credentials are absent.
// This is a deliberate non-error path for demo operation.
const (
	degradedNotice = "web search credentials are not configured; see the README for setup"
	degradedAnswer = "Search is not configured, so this instance cannot ground answers in live web results. " +
		"Set the search API key and engine ID to enable grounded answers with cited sources."
)

// Service orchestrates one question through the pipeline.
type Service struct {
	search           Searcher
	filter           Filter
	composer         Composer
	searchConfigured bool
	resultCount      int
}

// New creates the ask orchestrator. searchConfigured reflects whether web
// search credentials were present at startup; without them every request
// takes the degraded path and no provider is called.
func New(search Searcher, filter Filter, composer Composer, searchConfigured bool) *Service {
	return &Service{
		search:           search,
		filter:           filter,
		composer:         composer,
		searchConfigured: searchConfigured,
		resultCount:      DefaultResultCount,
	}
}

// WithResultCount overrides how many web results are requested.
func (s *Service) WithResultCount(n int) *Service {
	if n > 0 {
		s.resultCount = n
	}
	return s
}

// Ask answers one question. Failures from search or generation propagate
// to the caller; embedding failures are absorbed by the filter's fallback
// policies and only shape which sources remain.
func (s *Service) Ask(ctx context.Context, question string) (domain.AnswerPayload, error) {
	if strings.TrimSpace(question) == "" {
		return domain.AnswerPayload{}, domain.ErrEmptyQuestion
	}

	log := logpkg.FromContext(ctx)

	if !s.searchConfigured {
		log.Info("answering in degraded mode, search not configured")
		return domain.AnswerPayload{
			Answer:   degradedAnswer,
			Sources:  []domain.SearchResult{},
			Degraded: true,
			Notice:   degradedNotice,
		}, nil
	}

	log.Info("searching the web", zap.String("question", question), zap.Int("result_count", s.resultCount))
	results, err := s.search.Search(ctx, question, s.resultCount)
	if err != nil {
		return domain.AnswerPayload{}, fmt.Errorf("web search: %w", err)
	}
	log.Info("search complete", zap.Int("found", len(results)))

	curated, err := s.filter.Filter(ctx, question, results)
	if err != nil {
		return domain.AnswerPayload{}, fmt.Errorf("relevance filter: %w", err)
	}
	log.Info("filter complete", zap.Int("kept", len(curated)))

	answer, err := s.composer.Compose(ctx, question, curated)
	if err != nil {
		return domain.AnswerPayload{}, fmt.Errorf("compose answer: %w", err)
	}
	log.Info("answer generated", zap.Int("answer_len", len(answer)))

	return domain.AnswerPayload{
		Answer:        answer,
		Sources:       curated,
		TotalFound:    len(results),
		FilteredCount: len(curated),
	}, nil
}
