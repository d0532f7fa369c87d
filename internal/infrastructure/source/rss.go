package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"CompanyNewsScanner/internal/domain"
	"CompanyNewsScanner/internal/source"
)

// RSSReader normalizes a syndication feed into candidate items.
type RSSReader struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ source.Reader = (*RSSReader)(nil)

// NewRSSReader wires an HTTP client into the feed parser; a nil client gets
// a 20 second timeout default.
func NewRSSReader(client *http.Client, logger *slog.Logger) *RSSReader {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "CompanyNewsScanner/1.0"
	return &RSSReader{parser: parser, logger: logger}
}

// Name identifies the strategy inside the registry.
func (r *RSSReader) Name() string {
	return "rss"
}

// Read fetches and parses the configured feed. Entries whose published date
// cannot be parsed are skipped with a warning; a failure on the whole feed
// is surfaced to the caller.
func (r *RSSReader) Read(ctx context.Context, req source.Request) ([]domain.CandidateItem, error) {
	if req.FeedURL == "" {
		return nil, fmt.Errorf("source %s: no feed url configured", req.SourceName)
	}

	feed, err := r.parser.ParseURLWithContext(req.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", req.FeedURL, err)
	}

	items := make([]domain.CandidateItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil || entry.Link == "" || entry.Title == "" {
			continue
		}

		published := entry.PublishedParsed
		if published == nil {
			published = entry.UpdatedParsed
		}
		if published == nil {
			r.warn("skipping entry with unparseable date", "source", req.SourceName, "title", entry.Title)
			continue
		}

		items = append(items, domain.CandidateItem{
			Title:       strings.TrimSpace(entry.Title),
			Summary:     strings.TrimSpace(entry.Description),
			URL:         strings.TrimSpace(entry.Link),
			Source:      req.SourceName,
			PublishedAt: published.UTC(),
		})
	}

	return items, nil
}

func (r *RSSReader) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
