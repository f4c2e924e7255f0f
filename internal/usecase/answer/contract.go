package answer

import "context"

// Generator produces text from a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
