package domain

// SearchResult is a single web search hit. SimilarityScore is attached by
// the relevance filter; it stays nil for results that were never scored.
type SearchResult struct {
	Title           string   `json:"title"`
	Link            string   `json:"link"`
	Snippet         string   `json:"snippet"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}

// AnswerPayload is the response body for a grounded answer.
// Invariants: FilteredCount == len(Sources) <= TotalFound, and every
// source carries a similarity score at or above the filter threshold.
type AnswerPayload struct {
	Answer        string         `json:"answer"`
	Sources       []SearchResult `json:"sources"`
	TotalFound    int            `json:"total_found"`
	FilteredCount int            `json:"filtered_count"`

	// Degraded marks the non-error response produced when search
	// credentials are absent. Notice carries the explanation shown in
	// the response's error field. Neither is serialized directly.
	Degraded bool   `json:"-"`
	Notice   string `json:"-"`
}
