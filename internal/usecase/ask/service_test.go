package ask

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/askdex/internal/domain"
	"github.com/kailas-cloud/askdex/internal/usecase/answer"
	"github.com/kailas-cloud/askdex/internal/usecase/relevance"
)

// --- Mocks ---

type mockSearcher struct {
	results []domain.SearchResult
	err     error
	calls   int
}

func (m *mockSearcher) Search(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	m.calls++
	return m.results, m.err
}

type mockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	calls   int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	vec, ok := m.vectors[text]
	if !ok {
		return domain.EmbeddingResult{}, errors.New("no vector for text")
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

type mockGenerator struct {
	answer string
	err    error
	calls  int
}

func (m *mockGenerator) Generate(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.answer, m.err
}

type passthroughFilter struct{}

func (passthroughFilter) Filter(
	_ context.Context, _ string, results []domain.SearchResult,
) ([]domain.SearchResult, error) {
	return results, nil
}

// --- Tests ---

func TestAsk_EndToEnd(t *testing.T) {
	question := "What is the capital of France?"

	paris := domain.SearchResult{
		Title: "Paris", Link: "https://example.com/paris",
		Snippet: "Paris is the capital and largest city of France.",
	}
	eiffel := domain.SearchResult{
		Title: "Eiffel Tower", Link: "https://example.com/eiffel",
		Snippet: "The Eiffel Tower is a landmark in Paris.",
	}
	cuisine := domain.SearchResult{
		Title: "French cuisine", Link: "https://example.com/cuisine",
		Snippet: "French cooking techniques and dishes.",
	}

	embedder := &mockEmbedder{vectors: map[string][]float32{
		question: {1, 0},
		eiffel.Title + " " + eiffel.Snippet:   {0.7, 0.714},  // ≈ cos 0.7
		paris.Title + " " + paris.Snippet:     {0.95, 0.05},  // ≈ cos 0.999
		cuisine.Title + " " + cuisine.Snippet: {0.1, 0.995},  // ≈ cos 0.1, below threshold
	}}
	searcher := &mockSearcher{results: []domain.SearchResult{eiffel, paris, cuisine}}
	generator := &mockGenerator{answer: "The capital of France is Paris. [1]"}

	svc := New(
		searcher,
		relevance.New(embedder),
		answer.New(generator),
		true,
	)

	payload, err := svc.Ask(context.Background(), question)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if payload.TotalFound != 3 {
		t.Errorf("total_found = %d, want 3", payload.TotalFound)
	}
	if payload.FilteredCount != 2 {
		t.Errorf("filtered_count = %d, want 2", payload.FilteredCount)
	}
	if len(payload.Sources) != payload.FilteredCount {
		t.Errorf("len(sources) = %d, want %d", len(payload.Sources), payload.FilteredCount)
	}
	if payload.Sources[0].Title != "Paris" || payload.Sources[1].Title != "Eiffel Tower" {
		t.Errorf("unexpected source ranking: %s, %s", payload.Sources[0].Title, payload.Sources[1].Title)
	}
	if payload.Answer != "The capital of France is Paris. [1]" {
		t.Errorf("unexpected answer: %q", payload.Answer)
	}
	if generator.calls != 1 {
		t.Errorf("expected 1 generation call, got %d", generator.calls)
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	searcher := &mockSearcher{}
	svc := New(searcher, passthroughFilter{}, answer.New(&mockGenerator{}), true)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Ask(context.Background(), q)
		if !errors.Is(err, domain.ErrEmptyQuestion) {
			t.Errorf("Ask(%q): expected ErrEmptyQuestion, got %v", q, err)
		}
	}
	if searcher.calls != 0 {
		t.Errorf("expected zero search calls for empty questions, got %d", searcher.calls)
	}
}

func TestAsk_DegradedMode(t *testing.T) {
	searcher := &mockSearcher{}
	generator := &mockGenerator{}
	embedder := &mockEmbedder{}

	svc := New(
		searcher,
		relevance.New(embedder),
		answer.New(generator),
		false, // search not configured
	)

	payload, err := svc.Ask(context.Background(), "any question")
	if err != nil {
		t.Fatalf("degraded mode must not error: %v", err)
	}

	if !payload.Degraded {
		t.Error("payload must be marked degraded")
	}
	if payload.Notice == "" {
		t.Error("degraded payload must carry a notice")
	}
	if payload.Answer == "" {
		t.Error("degraded payload must carry an explanatory answer")
	}
	if len(payload.Sources) != 0 {
		t.Errorf("degraded payload must have empty sources, got %d", len(payload.Sources))
	}
	if searcher.calls != 0 || embedder.calls != 0 || generator.calls != 0 {
		t.Errorf("degraded mode made outbound calls: search=%d embed=%d generate=%d",
			searcher.calls, embedder.calls, generator.calls)
	}
}

func TestAsk_SearchFailurePropagates(t *testing.T) {
	searcher := &mockSearcher{err: domain.ErrSearchProviderError}
	svc := New(searcher, passthroughFilter{}, answer.New(&mockGenerator{}), true)

	_, err := svc.Ask(context.Background(), "question")
	if !errors.Is(err, domain.ErrSearchProviderError) {
		t.Errorf("expected ErrSearchProviderError, got %v", err)
	}
}

func TestAsk_GenerationFailurePropagates(t *testing.T) {
	searcher := &mockSearcher{results: []domain.SearchResult{
		{Title: "t", Link: "l", Snippet: "s"},
	}}
	generator := &mockGenerator{err: domain.ErrGenerationProviderError}

	svc := New(searcher, passthroughFilter{}, answer.New(generator), true)

	_, err := svc.Ask(context.Background(), "question")
	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Errorf("expected ErrGenerationProviderError, got %v", err)
	}
}

func TestAsk_NoResultsStillAnswers(t *testing.T) {
	searcher := &mockSearcher{results: []domain.SearchResult{}}
	generator := &mockGenerator{answer: "I could not find sources for this."}
	embedder := &mockEmbedder{}

	svc := New(
		searcher,
		relevance.New(embedder),
		answer.New(generator),
		true,
	)

	payload, err := svc.Ask(context.Background(), "obscure question")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if payload.TotalFound != 0 || payload.FilteredCount != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", payload.TotalFound, payload.FilteredCount)
	}
	if embedder.calls != 0 {
		t.Errorf("expected zero embedding calls for empty results, got %d", embedder.calls)
	}
	if generator.calls != 1 {
		t.Errorf("expected 1 generation call, got %d", generator.calls)
	}
}
