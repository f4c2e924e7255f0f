// Package googlesearch is a client for the Google Custom Search JSON API.
package googlesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/domain"
	"github.com/kailas-cloud/askdex/internal/metrics"
)

// Client issues web search queries against the Custom Search JSON API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	engineID   string
	baseURL    string
	logger     *zap.Logger
}

// Config holds the web search provider settings.
type Config struct {
	APIKey   string
	EngineID string
	BaseURL  string
	Logger   *zap.Logger
}

// searchResponse mirrors the Custom Search JSON API response subset we use.
type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// NewClient creates a Custom Search client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/customsearch/v1"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     cfg.APIKey,
		engineID:   cfg.EngineID,
		baseURL:    baseURL,
		logger:     cfg.Logger,
	}
}

// Search requests up to num results for the query. A provider reporting
// no items yields an empty slice, not an error. No retries are performed;
// any failure wraps domain.ErrSearchProviderError.
func (c *Client) Search(ctx context.Context, query string, num int) ([]domain.SearchResult, error) {
	if c.apiKey == "" || c.engineID == "" {
		return nil, domain.ErrSearchNotConfigured
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("search request failed: %w", domain.ErrSearchProviderError)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("search API returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("search API status %d: %w", resp.StatusCode, domain.ErrSearchProviderError)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode search response: %w", domain.ErrSearchProviderError)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		results = append(results, domain.SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}

	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()
	metrics.SearchResultsFound.Observe(float64(len(results)))

	return results, nil
}
