package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CompanyNewsScanner/internal/config"
	"CompanyNewsScanner/internal/domain"
	"CompanyNewsScanner/internal/source"
)

// NewsAPIReader issues one search query against a newsapi.org-style
// endpoint and normalizes the returned articles.
type NewsAPIReader struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

var _ source.Reader = (*NewsAPIReader)(nil)

// NewNewsAPIReader builds a reader from provider configuration.
func NewNewsAPIReader(cfg config.NewsAPIConfig, client *http.Client, logger *slog.Logger) *NewsAPIReader {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &NewsAPIReader{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   client,
		logger:   logger,
	}
}

// Name identifies the strategy inside the registry.
func (n *NewsAPIReader) Name() string {
	return "newsapi"
}

type searchResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Read issues a single HTTP query for the configured search expression.
// The provider is assumed to return the full result set in one page.
func (n *NewsAPIReader) Read(ctx context.Context, req source.Request) ([]domain.CandidateItem, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("source %s: no query configured", req.SourceName)
	}

	queryURL, err := n.buildQueryURL(req.Query)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news api returned %s", resp.Status)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]domain.CandidateItem, 0, len(parsed.Articles))
	for _, article := range parsed.Articles {
		if article.URL == "" || article.Title == "" {
			continue
		}

		published, err := time.Parse(time.RFC3339, article.PublishedAt)
		if err != nil {
			n.warn("skipping article with unparseable date",
				"source", req.SourceName, "title", article.Title, "publishedAt", article.PublishedAt)
			continue
		}

		items = append(items, domain.CandidateItem{
			Title:       strings.TrimSpace(article.Title),
			Summary:     strings.TrimSpace(article.Description),
			URL:         strings.TrimSpace(article.URL),
			Source:      req.SourceName,
			PublishedAt: published.UTC(),
		})
	}

	return items, nil
}

func (n *NewsAPIReader) buildQueryURL(query string) (string, error) {
	parsed, err := url.Parse(n.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid news api endpoint %s: %w", n.endpoint, err)
	}

	values := parsed.Query()
	values.Set("q", query)
	values.Set("apiKey", n.apiKey)
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

func (n *NewsAPIReader) warn(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Warn(msg, args...)
	}
}
