package ports

import (
	"context"
	"time"

	"CompanyNewsScanner/internal/domain"
)

// CandidateSource aggregates raw candidates from every configured origin.
// A failing origin is skipped and logged; the remaining ones still report.
type CandidateSource interface {
	Fetch(ctx context.Context) ([]domain.CandidateItem, error)
}

// Classifier produces the provisional verdict from title and summary.
type Classifier interface {
	Classify(ctx context.Context, title, summary string) (domain.Verdict, error)
}

// Confirmer re-validates a provisional verdict against the full article
// text. The returned verdict always wins over the provisional one; any
// fetch or parse failure yields a terminal none verdict.
type Confirmer interface {
	Confirm(ctx context.Context, url, title string, provisional domain.Topic) (domain.Verdict, error)
}

// DuplicateJudge decides whether two records describe the same event.
type DuplicateJudge interface {
	SameEvent(ctx context.Context, a, b domain.NewsRecord) (bool, string, error)
}

// NewsStore persists final news records. Insert-only from this pipeline.
type NewsStore interface {
	InsertNews(ctx context.Context, record domain.NewsRecord) error
}

// CompanyStore provides lookup-or-create access to company records.
type CompanyStore interface {
	FindCompany(ctx context.Context, name string) (*domain.CompanyRecord, error)
	InsertCompany(ctx context.Context, company domain.CompanyRecord) error
}

// WatermarkStore keeps the published-at boundary of the last ingested item.
type WatermarkStore interface {
	LastRun(ctx context.Context) (time.Time, bool, error)
	SetLastRun(ctx context.Context, accepted []time.Time) error
}

// UserStore lists newsletter recipients with their subscription lists.
type UserStore interface {
	Users(ctx context.Context) ([]domain.User, error)
}

// Notifier receives the final deduplicated record list for delivery.
type Notifier interface {
	Deliver(ctx context.Context, records []domain.NewsRecord) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
