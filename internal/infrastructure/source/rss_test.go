package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CompanyNewsScanner/internal/source"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Emprendedores</title>
    <item>
      <title>Empresa X traslada su sede a Valencia</title>
      <link>https://example.org/sede-valencia</link>
      <description>La empresa confirma el traslado de su sede central.</description>
      <pubDate>Mon, 10 Mar 2025 08:30:00 +0000</pubDate>
    </item>
    <item>
      <title>Entrada sin fecha</title>
      <link>https://example.org/sin-fecha</link>
      <description>Sin fecha de publicación.</description>
    </item>
    <item>
      <title>Nueva empresa en Bilbao</title>
      <link>https://example.org/nueva-empresa</link>
      <description>Se funda una nueva empresa tecnológica.</description>
      <pubDate>Tue, 11 Mar 2025 09:00:00 +0100</pubDate>
    </item>
  </channel>
</rss>`

func TestRSSReaderRead(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	reader := NewRSSReader(server.Client(), nil)

	items, err := reader.Read(context.Background(), source.Request{
		SourceName: "test-feed",
		FeedURL:    server.URL,
	})
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items (dateless entry skipped), got %d", len(items))
	}

	first := items[0]
	if first.Title != "Empresa X traslada su sede a Valencia" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.Source != "test-feed" {
		t.Fatalf("unexpected source %q", first.Source)
	}

	want := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, first.PublishedAt)
	}
	if first.PublishedAt.Location() != time.UTC {
		t.Fatal("published timestamp must be normalized to UTC")
	}

	// The +0100 entry must also land as a UTC instant.
	second := items[1]
	wantSecond := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	if !second.PublishedAt.Equal(wantSecond) {
		t.Fatalf("expected %v, got %v", wantSecond, second.PublishedAt)
	}
}

func TestRSSReaderSourceFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	reader := NewRSSReader(server.Client(), nil)

	if _, err := reader.Read(context.Background(), source.Request{SourceName: "x", FeedURL: server.URL}); err == nil {
		t.Fatal("expected whole-source failure")
	}
}

func TestRSSReaderRequiresFeedURL(t *testing.T) {
	t.Parallel()

	reader := NewRSSReader(nil, nil)
	if _, err := reader.Read(context.Background(), source.Request{SourceName: "x"}); err == nil {
		t.Fatal("expected error without feed url")
	}
}
