package source

import (
	"context"
	"errors"
	"testing"

	"CompanyNewsScanner/internal/config"
	"CompanyNewsScanner/internal/domain"
	"CompanyNewsScanner/internal/source"
)

type stubReader struct {
	name  string
	items []domain.CandidateItem
	err   error
}

func (s *stubReader) Name() string { return s.name }

func (s *stubReader) Read(_ context.Context, _ source.Request) ([]domain.CandidateItem, error) {
	return s.items, s.err
}

func TestMultiSourceSkipsFailingOrigin(t *testing.T) {
	t.Parallel()

	registry := source.NewRegistry()
	registry.Register(&stubReader{name: "broken", err: errors.New("connection refused")})
	registry.Register(&stubReader{name: "healthy", items: []domain.CandidateItem{
		{Title: "Nueva empresa en Bilbao", URL: "https://example.org/a"},
	}})

	multi := NewMultiSource(registry, []config.SourceConfig{
		{Name: "feed-broken", Reader: "broken"},
		{Name: "feed-healthy", Reader: "healthy"},
	}, nil)

	items, err := multi.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Nueva empresa en Bilbao" {
		t.Fatalf("healthy origin lost: %+v", items)
	}
}

func TestMultiSourceSkipsUnknownReader(t *testing.T) {
	t.Parallel()

	registry := source.NewRegistry()
	registry.Register(&stubReader{name: "rss", items: []domain.CandidateItem{{Title: "ok", URL: "u"}}})

	multi := NewMultiSource(registry, []config.SourceConfig{
		{Name: "feed", Reader: "rss"},
		{Name: "typo", Reader: "rsss"},
	}, nil)

	items, err := multi.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestMultiSourceRequiresRegistry(t *testing.T) {
	t.Parallel()

	multi := NewMultiSource(nil, nil, nil)
	if _, err := multi.Fetch(context.Background()); err == nil {
		t.Fatal("expected error without registry")
	}
}
