package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"CompanyNewsScanner/internal/domain"
)

type stubJudge struct {
	duplicate func(a, b domain.NewsRecord) bool
	err       error
	calls     int
}

func (s *stubJudge) SameEvent(_ context.Context, a, b domain.NewsRecord) (bool, string, error) {
	s.calls++
	if s.err != nil {
		return false, "", s.err
	}
	return s.duplicate(a, b), "stub rationale", nil
}

func TestDedupeMergesSameEvent(t *testing.T) {
	t.Parallel()

	judge := &stubJudge{duplicate: func(a, b domain.NewsRecord) bool {
		return a.Title == b.Title
	}}
	deduper := NewDeduplicator(judge, nil)

	records := []domain.NewsRecord{
		{Title: "Empresa Y contrata 300 empleados", URL: "https://outlet-a.example/1"},
		{Title: "Otro suceso distinto", URL: "https://outlet-b.example/2"},
		{Title: "Empresa Y contrata 300 empleados", URL: "https://outlet-c.example/3"},
	}

	result := deduper.Dedupe(context.Background(), records)

	if len(result) != 2 {
		t.Fatalf("expected 2 surviving records, got %d", len(result))
	}

	merged := result[0]
	if !strings.Contains(merged.URL, "https://outlet-a.example/1") || !strings.Contains(merged.URL, "https://outlet-c.example/3") {
		t.Fatalf("merged record must keep both urls, got %q", merged.URL)
	}
	if !strings.Contains(merged.URL, domain.URLSeparator) {
		t.Fatalf("urls not joined with the fixed separator: %q", merged.URL)
	}
}

func TestDedupeKeepsOriginalOrder(t *testing.T) {
	t.Parallel()

	judge := &stubJudge{duplicate: func(_, _ domain.NewsRecord) bool { return false }}
	deduper := NewDeduplicator(judge, nil)

	records := []domain.NewsRecord{
		{Title: "primera", URL: "u1"},
		{Title: "segunda", URL: "u2"},
		{Title: "tercera", URL: "u3"},
	}

	result := deduper.Dedupe(context.Background(), records)
	if len(result) != 3 {
		t.Fatalf("expected all records kept, got %d", len(result))
	}
	for i, title := range []string{"primera", "segunda", "tercera"} {
		if result[i].Title != title {
			t.Fatalf("order changed: %+v", result)
		}
	}
}

func TestDedupeFailsOpen(t *testing.T) {
	t.Parallel()

	judge := &stubJudge{err: errors.New("model unreachable")}
	deduper := NewDeduplicator(judge, nil)

	records := []domain.NewsRecord{
		{Title: "a", URL: "u1"},
		{Title: "a", URL: "u2"},
	}

	result := deduper.Dedupe(context.Background(), records)
	if len(result) != 2 {
		t.Fatalf("comparator failure must keep both records, got %d", len(result))
	}
}

func TestDedupeSkipsTrivialInputs(t *testing.T) {
	t.Parallel()

	judge := &stubJudge{duplicate: func(_, _ domain.NewsRecord) bool { return true }}
	deduper := NewDeduplicator(judge, nil)

	single := []domain.NewsRecord{{Title: "solo", URL: "u"}}
	if got := deduper.Dedupe(context.Background(), single); len(got) != 1 {
		t.Fatalf("single record must pass through, got %d", len(got))
	}
	if judge.calls != 0 {
		t.Fatalf("no judgments expected for single record, got %d", judge.calls)
	}
}
