package answer

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/askdex/internal/domain"
)

// BuildPrompt assembles the grounded prompt: the curated results as a
// numbered context block, the question, and the citation instruction.
// Citation markers [1]..[N] follow the position in curated, so the model's
// bracketed references map back onto the sources array of the response.
func BuildPrompt(question string, curated []domain.SearchResult) string {
	var b strings.Builder

	b.WriteString("The following are relevant search results:\n\n")

	for i, res := range curated {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, res.Title)
		fmt.Fprintf(&b, "    Source: %s\n", res.Link)
		fmt.Fprintf(&b, "    Content: %s\n", res.Snippet)
		if res.SimilarityScore != nil {
			fmt.Fprintf(&b, "    Relevance: %.2f\n", *res.SimilarityScore)
		}
		b.WriteString("\n")
	}

	b.WriteString("Based on the search results above, answer the following question:\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Cite the sources you use with the bracketed numbers matching the numbering above.")

	return b.String()
}
