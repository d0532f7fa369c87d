package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"CompanyNewsScanner/internal/domain"
	"CompanyNewsScanner/internal/ports"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Source     ports.CandidateSource
	Classifier ports.Classifier
	Confirmer  ports.Confirmer
	Judge      ports.DuplicateJudge
	News       ports.NewsStore
	Companies  ports.CompanyStore
	Watermark  ports.WatermarkStore
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline drives one ingestion run: read sources, classify, confirm by
// scraping, deduplicate, persist, advance the watermark, and hand the
// final list to the notifier. It exclusively owns the in-run accumulator;
// per-item failures are logged and skipped, never fatal to the run.
type Pipeline struct {
	source     ports.CandidateSource
	classifier ports.Classifier
	confirmer  ports.Confirmer
	deduper    *Deduplicator
	news       ports.NewsStore
	companies  ports.CompanyStore
	watermark  ports.WatermarkStore
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		classifier: deps.Classifier,
		confirmer:  deps.Confirmer,
		deduper:    NewDeduplicator(deps.Judge, deps.Logger),
		news:       deps.News,
		companies:  deps.Companies,
		watermark:  deps.Watermark,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

// Run executes a single synchronous ingestion pass.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.source == nil {
		return nil
	}

	since, haveWatermark, err := p.loadWatermark(ctx)
	if err != nil {
		// A missing or unreadable watermark widens the run instead of
		// aborting it; duplicates are caught downstream.
		p.warn("watermark unavailable, processing full source window", "error", err)
		haveWatermark = false
	}

	candidates, err := p.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch candidates: %w", err)
	}
	p.info("run started", "candidates", len(candidates), "watermarked", haveWatermark)

	var (
		accepted   []domain.NewsRecord
		timestamps []time.Time
	)

	for _, item := range candidates {
		published := item.PublishedAt.UTC()
		if haveWatermark && !published.After(since) {
			continue
		}

		record, ok := p.processItem(ctx, item)
		if !ok {
			continue
		}

		accepted = append(accepted, record)
		timestamps = append(timestamps, published)
	}

	accepted = p.deduper.Dedupe(ctx, accepted)

	p.persist(ctx, accepted)

	if p.watermark != nil {
		if err := p.watermark.SetLastRun(ctx, timestamps); err != nil {
			p.warn("watermark update failed", "error", err)
		}
	}

	if p.notifier != nil && len(accepted) > 0 {
		if err := p.notifier.Deliver(ctx, accepted); err != nil {
			p.warn("notification delivery failed", "error", err)
		}
	}

	p.info("run finished", "accepted", len(accepted))
	return nil
}

// processItem runs one candidate through classification and confirmation.
// The boolean reports whether the candidate survived.
func (p *Pipeline) processItem(ctx context.Context, item domain.CandidateItem) (domain.NewsRecord, bool) {
	verdict, err := p.classifier.Classify(ctx, item.Title, item.Summary)
	if err != nil {
		p.warn("classification failed", "title", item.Title, "url", item.URL, "error", err)
		return domain.NewsRecord{}, false
	}
	if verdict.Topic == domain.TopicNone {
		p.debug("candidate not relevant", "title", item.Title)
		return domain.NewsRecord{}, false
	}

	confirmed := verdict
	if p.confirmer != nil {
		confirmed, err = p.confirmer.Confirm(ctx, item.URL, item.Title, verdict.Topic)
		if err != nil {
			p.warn("confirmation failed", "title", item.Title, "url", item.URL, "error", err)
		}
		if confirmed.Topic == domain.TopicNone {
			p.debug("candidate dropped on confirmation", "title", item.Title)
			return domain.NewsRecord{}, false
		}
	}

	confirmed = confirmed.Normalize()

	return domain.NewsRecord{
		ID:          uuid.NewString(),
		Company:     confirmed.Company,
		Title:       item.Title,
		Topic:       confirmed.Topic,
		PublishedAt: item.PublishedAt.UTC(),
		Locale:      confirmed.Locale,
		Region:      confirmed.Region,
		URL:         item.URL,
		Details:     confirmed.Details,
		Sector:      confirmed.Sector,
	}, true
}

// persist writes company records first, then news records. Store failures
// are downgraded to logged warnings so one bad write never aborts the run.
func (p *Pipeline) persist(ctx context.Context, records []domain.NewsRecord) {
	for _, record := range records {
		p.ensureCompanies(ctx, record)

		if p.news == nil {
			continue
		}
		if err := p.news.InsertNews(ctx, record); err != nil {
			p.warn("news insert failed", "title", record.Title, "url", record.URL, "error", err)
			continue
		}
		p.debug("news record stored", "title", record.Title, "topic", string(record.Topic))
	}
}

// ensureCompanies lazily creates a company record for each distinct,
// non-unknown name referenced by the news record.
func (p *Pipeline) ensureCompanies(ctx context.Context, record domain.NewsRecord) {
	if p.companies == nil {
		return
	}

	for _, name := range record.CompanyNames() {
		existing, err := p.companies.FindCompany(ctx, name)
		if err != nil {
			p.warn("company lookup failed", "company", name, "error", err)
			continue
		}
		if existing != nil {
			continue
		}

		company := domain.CompanyRecord{
			Name:    name,
			Sector:  record.Sector,
			Details: domain.Unknown,
		}
		if err := p.companies.InsertCompany(ctx, company); err != nil {
			p.warn("company insert failed", "company", name, "error", err)
			continue
		}
		p.debug("company record created", "company", name, "sector", company.Sector)
	}
}

func (p *Pipeline) loadWatermark(ctx context.Context) (time.Time, bool, error) {
	if p.watermark == nil {
		return time.Time{}, false, fmt.Errorf("watermark store is not configured")
	}
	return p.watermark.LastRun(ctx)
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
