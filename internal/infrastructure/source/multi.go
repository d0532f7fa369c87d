package source

import (
	"context"
	"fmt"
	"log/slog"

	"CompanyNewsScanner/internal/config"
	"CompanyNewsScanner/internal/domain"
	"CompanyNewsScanner/internal/ports"
	"CompanyNewsScanner/internal/source"
)

// MultiSource implements CandidateSource via registered reader strategies.
// A failing origin is logged and skipped so the remaining origins still
// contribute to the run.
type MultiSource struct {
	registry *source.Registry
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.CandidateSource = (*MultiSource)(nil)

// NewMultiSource wires the reader registry with config-defined origins.
func NewMultiSource(reg *source.Registry, sources []config.SourceConfig, log *slog.Logger) *MultiSource {
	return &MultiSource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// Fetch iterates over configured origins and executes their readers.
func (s *MultiSource) Fetch(ctx context.Context) ([]domain.CandidateItem, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("reader registry is not configured")
	}

	var aggregated []domain.CandidateItem
	for _, src := range s.sources {
		reader, err := s.registry.Resolve(src.Reader)
		if err != nil {
			s.warn("source skipped", "source", src.Name, "error", err)
			continue
		}

		req := source.Request{
			SourceName: src.Name,
			FeedURL:    src.FeedURL,
			Query:      src.Query,
		}

		items, err := reader.Read(ctx, req)
		if err != nil {
			s.warn("source unavailable", "source", src.Name, "error", err)
			continue
		}

		s.debug("source produced candidates", "source", src.Name, "count", len(items))
		aggregated = append(aggregated, items...)
	}

	return aggregated, nil
}

func (s *MultiSource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *MultiSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
