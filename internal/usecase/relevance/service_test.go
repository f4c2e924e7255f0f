package relevance

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/askdex/internal/domain"
)

// mockEmbedder maps input text to a fixed vector, with optional per-text
// failures. Safe for concurrent use.
type mockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	failFor map[string]bool
	failAll bool
	calls   int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.failAll || m.failFor[text] {
		return domain.EmbeddingResult{}, errors.New("embedding unavailable")
	}
	vec, ok := m.vectors[text]
	if !ok {
		return domain.EmbeddingResult{}, errors.New("no vector for text: " + text)
	}
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: 1}, nil
}

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func result(title, snippet string) domain.SearchResult {
	return domain.SearchResult{Title: title, Link: "https://example.com/" + title, Snippet: snippet}
}

// resultText mirrors the concatenation the filter embeds.
func resultText(r domain.SearchResult) string {
	return r.Title + " " + r.Snippet
}

func TestFilter_ThresholdAndOrdering(t *testing.T) {
	question := "What is the capital of France?"
	paris := result("paris", "Paris is the capital of France")
	eiffel := result("eiffel", "The Eiffel Tower stands in Paris")
	cuisine := result("cuisine", "French cuisine is world famous")

	emb := &mockEmbedder{vectors: map[string][]float32{
		question:            {1, 0},
		resultText(paris):   {0.95, 0.05},  // ≈ cos 0.999
		resultText(eiffel):  {0.7, 0.7},    // ≈ cos 0.707
		resultText(cuisine): {0.1, 0.995},  // ≈ cos 0.1
	}}

	svc := New(emb)

	got, err := svc.Filter(context.Background(), question, []domain.SearchResult{eiffel, paris, cuisine})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 kept results, got %d", len(got))
	}
	if got[0].Title != "paris" || got[1].Title != "eiffel" {
		t.Errorf("unexpected order: %s, %s", got[0].Title, got[1].Title)
	}
	for _, r := range got {
		if r.SimilarityScore == nil {
			t.Fatalf("kept result %q has no score", r.Title)
		}
		if *r.SimilarityScore < DefaultThreshold {
			t.Errorf("kept result %q scored %v, below threshold", r.Title, *r.SimilarityScore)
		}
	}
	if *got[0].SimilarityScore < *got[1].SimilarityScore {
		t.Error("results not sorted descending by score")
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	emb := &mockEmbedder{}
	svc := New(emb)

	got, err := svc.Filter(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty output, got %d results", len(got))
	}
	if emb.callCount() != 0 {
		t.Errorf("expected zero embedding calls for empty input, got %d", emb.callCount())
	}
}

func TestFilter_QuestionEmbeddingFails(t *testing.T) {
	a := result("a", "first")
	b := result("b", "second")

	emb := &mockEmbedder{failAll: true}
	svc := New(emb)

	got, err := svc.Filter(context.Background(), "question", []domain.SearchResult{a, b})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected all results back, got %d", len(got))
	}
	if got[0].Title != "a" || got[1].Title != "b" {
		t.Errorf("original order not preserved: %s, %s", got[0].Title, got[1].Title)
	}
	for _, r := range got {
		if r.SimilarityScore != nil {
			t.Errorf("result %q must be unscored on question-embedding failure", r.Title)
		}
	}
	if emb.callCount() != 1 {
		t.Errorf("expected exactly 1 embedding call (the question), got %d", emb.callCount())
	}
}

func TestFilter_SingleResultEmbeddingFails(t *testing.T) {
	question := "question"
	a := result("a", "first")
	broken := result("broken", "unembeddable")
	b := result("b", "second")

	emb := &mockEmbedder{
		vectors: map[string][]float32{
			question:      {1, 0},
			resultText(a): {0.9, 0.1},
			resultText(b): {0.8, 0.2},
		},
		failFor: map[string]bool{resultText(broken): true},
	}
	svc := New(emb)

	got, err := svc.Filter(context.Background(), question, []domain.SearchResult{a, broken, b})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 results after dropping the failed one, got %d", len(got))
	}
	for _, r := range got {
		if r.Title == "broken" {
			t.Error("failed result must be dropped from output")
		}
		if r.SimilarityScore == nil {
			t.Errorf("surviving result %q must be scored", r.Title)
		}
	}
	if got[0].Title != "a" || got[1].Title != "b" {
		t.Errorf("surviving results out of order: %s, %s", got[0].Title, got[1].Title)
	}
}

func TestFilter_StableTieOrder(t *testing.T) {
	question := "question"
	first := result("first", "same text basically")
	second := result("second", "same text basically")

	// Identical vectors produce identical scores; original order must hold.
	emb := &mockEmbedder{vectors: map[string][]float32{
		question:           {1, 0},
		resultText(first):  {0.6, 0.4},
		resultText(second): {0.6, 0.4},
	}}
	svc := New(emb)

	got, err := svc.Filter(context.Background(), question, []domain.SearchResult{first, second})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Title != "first" || got[1].Title != "second" {
		t.Errorf("tie order not stable: %s, %s", got[0].Title, got[1].Title)
	}
}

func TestFilter_CustomThreshold(t *testing.T) {
	question := "question"
	weak := result("weak", "barely related")

	emb := &mockEmbedder{vectors: map[string][]float32{
		question:         {1, 0},
		resultText(weak): {0.5, 0.866}, // ≈ cos 0.5
	}}

	strict := New(emb).WithThreshold(0.9)
	got, err := strict.Filter(context.Background(), question, []domain.SearchResult{weak})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 results with threshold 0.9, got %d", len(got))
	}
}
