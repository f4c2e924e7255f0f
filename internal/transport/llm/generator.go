// Package llm is the answer generation provider using an
// OpenAI-compatible chat completion API.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/domain"
	"github.com/kailas-cloud/askdex/internal/metrics"
)

// Generator produces a grounded answer from a single prompt.
type Generator struct {
	model  llms.Model
	name   string
	logger *zap.Logger
}

// Config holds the generation provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewGenerator creates a chat completion client. An empty API key gets a
// placeholder token so the client constructs; calls made with it fail and
// surface as provider errors.
func NewGenerator(cfg *Config) (*Generator, error) {
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create generation client: %w", err)
	}

	return &Generator{
		model:  client,
		name:   cfg.Model,
		logger: cfg.Logger,
	}, nil
}

// Generate issues one chat completion call and returns the model's text
// verbatim. No retry, no streaming; failures wrap
// domain.ErrGenerationProviderError.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	start := time.Now()

	resp, err := g.model.GenerateContent(ctx, content, llms.WithTemperature(0.2))

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.name, "error").Inc()
		return "", fmt.Errorf("generation API error: %v: %w", err, domain.ErrGenerationProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.name, "error").Inc()
		return "", fmt.Errorf("empty generation response: %w", domain.ErrGenerationProviderError)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.name, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.name).Observe(duration.Seconds())

	return resp.Choices[0].Content, nil
}
