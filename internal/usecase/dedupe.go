package usecase

import (
	"context"
	"log/slog"

	"CompanyNewsScanner/internal/domain"
	"CompanyNewsScanner/internal/ports"
)

// Deduplicator collapses same-event records collected in one run. The
// pairwise judgment is pluggable so the LLM comparator can be swapped for
// embedding-similarity clustering later.
type Deduplicator struct {
	judge  ports.DuplicateJudge
	logger *slog.Logger
}

// NewDeduplicator wires the pairwise comparator.
func NewDeduplicator(judge ports.DuplicateJudge, logger *slog.Logger) *Deduplicator {
	return &Deduplicator{judge: judge, logger: logger}
}

// Dedupe walks the records in original order, comparing each against every
// already-accepted record. The first accepted match absorbs the newcomer's
// source URL; with no match the newcomer is appended as-is. A comparator
// failure counts as not-duplicate so distinct news are never collapsed by
// accident. O(n²) in accepted records, acceptable at tens of items per run.
func (d *Deduplicator) Dedupe(ctx context.Context, records []domain.NewsRecord) []domain.NewsRecord {
	if d.judge == nil || len(records) < 2 {
		return records
	}

	accepted := make([]domain.NewsRecord, 0, len(records))

	for _, candidate := range records {
		merged := false
		for i := range accepted {
			same, rationale, err := d.judge.SameEvent(ctx, accepted[i], candidate)
			if err != nil {
				d.warn("duplicate judgment failed, keeping both",
					"title", candidate.Title, "against", accepted[i].Title, "error", err)
				continue
			}
			if same {
				d.debug("merging duplicate record",
					"kept", accepted[i].Title, "merged", candidate.Title, "rationale", rationale)
				for _, u := range candidate.URLs() {
					accepted[i].MergeURL(u)
				}
				merged = true
				break
			}
		}
		if !merged {
			accepted = append(accepted, candidate)
		}
	}

	return accepted
}

func (d *Deduplicator) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}

func (d *Deduplicator) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
