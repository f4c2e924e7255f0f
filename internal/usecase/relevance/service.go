// Package relevance ranks web search results by embedding similarity to
// the question and keeps only the ones above a threshold.
package relevance

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/domain"
	logpkg "github.com/kailas-cloud/askdex/internal/logger"
)

const (
	// DefaultThreshold is the minimum similarity score a result must
	// reach to survive filtering.
	DefaultThreshold = 0.3
	// DefaultWorkers bounds concurrent per-result embedding calls.
	DefaultWorkers = 4
)

// Service filters search results by semantic closeness to the question.
type Service struct {
	embed     Embedder
	threshold float64
	workers   int
}

// New creates a relevance filter with default threshold and worker count.
func New(embed Embedder) *Service {
	return &Service{
		embed:     embed,
		threshold: DefaultThreshold,
		workers:   DefaultWorkers,
	}
}

// WithThreshold overrides the similarity threshold.
func (s *Service) WithThreshold(threshold float64) *Service {
	s.threshold = threshold
	return s
}

// WithWorkers overrides the embedding worker pool size.
func (s *Service) WithWorkers(workers int) *Service {
	if workers > 0 {
		s.workers = workers
	}
	return s
}

// Filter scores each result against the question and returns the ones at
// or above the threshold, sorted descending by score. Ties keep their
// original search-rank order.
//
// Failure policy: if the question itself cannot be embedded, the input is
// returned unchanged and unscored — showing everything beats failing the
// request. If a single result cannot be embedded, only that result is
// dropped; the other results are unaffected.
func (s *Service) Filter(
	ctx context.Context, question string, results []domain.SearchResult,
) ([]domain.SearchResult, error) {
	if len(results) == 0 {
		return []domain.SearchResult{}, nil
	}

	log := logpkg.FromContext(ctx)

	questionEmb, err := s.embed.Embed(ctx, question)
	if err != nil {
		log.Warn("question embedding failed, returning unfiltered results", zap.Error(err))
		return results, nil
	}

	scored, err := s.scoreResults(ctx, questionEmb.Embedding, results)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.SearchResult, 0, len(scored))
	for _, res := range scored {
		if res.SimilarityScore != nil && *res.SimilarityScore >= s.threshold {
			kept = append(kept, res)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return *kept[i].SimilarityScore > *kept[j].SimilarityScore
	})

	log.Info("relevance filter complete",
		zap.Int("total", len(results)),
		zap.Int("kept", len(kept)),
		zap.Float64("threshold", s.threshold),
	)

	return kept, nil
}

// scoreResults embeds result texts concurrently on a bounded pool.
// Slots are reassembled by index so the original order survives; a
// result whose embedding fails leaves its slot unscored and is dropped
// by the caller.
func (s *Service) scoreResults(
	ctx context.Context, questionEmb []float32, results []domain.SearchResult,
) ([]domain.SearchResult, error) {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create embedding worker pool: %w", err)
	}
	defer pool.Release()

	log := logpkg.FromContext(ctx)

	scored := make([]domain.SearchResult, len(results))
	var wg sync.WaitGroup

	for i, res := range results {
		wg.Add(1)
		task := func() {
			defer wg.Done()

			text := res.Title + " " + res.Snippet
			resultEmb, embErr := s.embed.Embed(ctx, text)
			if embErr != nil {
				log.Warn("dropping result with failed embedding",
					zap.String("link", res.Link),
					zap.Error(embErr),
				)
				scored[i] = res // SimilarityScore stays nil
				return
			}

			score := domain.CosineSimilarity(questionEmb, resultEmb.Embedding)
			res.SimilarityScore = &score
			scored[i] = res
		}
		if submitErr := pool.Submit(task); submitErr != nil {
			// Pool is released only after Wait; treat as programmer error.
			wg.Done()
			return nil, fmt.Errorf("submit embedding task: %w", submitErr)
		}
	}

	wg.Wait()

	return scored, nil
}
