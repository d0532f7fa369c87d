package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CompanyNewsScanner/internal/config"
	"CompanyNewsScanner/internal/source"
)

const sampleSearch = `{
  "status": "ok",
  "articles": [
    {
      "title": "Empresa Y contrata 300 empleados",
      "description": "La empresa amplía su plantilla en Sevilla.",
      "url": "https://outlet-a.example/empresa-y",
      "publishedAt": "2025-03-12T10:15:00Z"
    },
    {
      "title": "Fecha ilegible",
      "description": "x",
      "url": "https://outlet-b.example/ilegible",
      "publishedAt": "ayer por la tarde"
    }
  ]
}`

func TestNewsAPIReaderRead(t *testing.T) {
	t.Parallel()

	var gotQuery, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("apiKey")
		_, _ = w.Write([]byte(sampleSearch))
	}))
	defer server.Close()

	reader := NewNewsAPIReader(config.NewsAPIConfig{Endpoint: server.URL, APIKey: "news-key"}, server.Client(), nil)

	items, err := reader.Read(context.Background(), source.Request{
		SourceName: "newsapi-sede",
		Query:      `"nueva sede" empleados`,
	})
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	if gotQuery != `"nueva sede" empleados` {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotKey != "news-key" {
		t.Fatalf("unexpected api key %q", gotKey)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 item (bad date skipped), got %d", len(items))
	}

	item := items[0]
	if item.Title != "Empresa Y contrata 300 empleados" {
		t.Fatalf("unexpected title %q", item.Title)
	}
	want := time.Date(2025, 3, 12, 10, 15, 0, 0, time.UTC)
	if !item.PublishedAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, item.PublishedAt)
	}
}

func TestNewsAPIReaderErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	reader := NewNewsAPIReader(config.NewsAPIConfig{Endpoint: server.URL}, server.Client(), nil)

	if _, err := reader.Read(context.Background(), source.Request{SourceName: "x", Query: "q"}); err == nil {
		t.Fatal("expected whole-source failure")
	}
}

func TestNewsAPIReaderRequiresQuery(t *testing.T) {
	t.Parallel()

	reader := NewNewsAPIReader(config.NewsAPIConfig{Endpoint: "https://example.org"}, nil, nil)
	if _, err := reader.Read(context.Background(), source.Request{SourceName: "x"}); err == nil {
		t.Fatal("expected error without query")
	}
}
