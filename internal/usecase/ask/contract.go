package ask

import (
	"context"

	"github.com/kailas-cloud/askdex/internal/domain"
)

// Searcher issues a web search query.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]domain.SearchResult, error)
}

// Filter curates search results by relevance to the question.
type Filter interface {
	Filter(ctx context.Context, question string, results []domain.SearchResult) ([]domain.SearchResult, error)
}

// Composer generates a grounded answer from curated results.
type Composer interface {
	Compose(ctx context.Context, question string, curated []domain.SearchResult) (string, error)
}
