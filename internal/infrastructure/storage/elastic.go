package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"CompanyNewsScanner/internal/config"
	"CompanyNewsScanner/internal/domain"
	"CompanyNewsScanner/internal/ports"
)

// watermarkDocID is the fixed identifier of the singleton watermark record.
const watermarkDocID = "ingestion_watermark"

// Store wraps go-elasticsearch with the document collections this pipeline
// relies on: news (insert-only), companies (upsert-by-name), users
// (read-only) and the app_metadata watermark singleton.
type Store struct {
	es      *elasticsearch.Client
	indices config.ElasticsearchConfig
	log     *slog.Logger
}

var (
	_ ports.NewsStore      = (*Store)(nil)
	_ ports.CompanyStore   = (*Store)(nil)
	_ ports.WatermarkStore = (*Store)(nil)
	_ ports.UserStore      = (*Store)(nil)
)

// New instantiates the Elasticsearch-backed store.
func New(cfg config.ElasticsearchConfig, logger *slog.Logger) (*Store, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Addr},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{es: es, indices: cfg, log: logger}, nil
}

// Ping checks whether the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.es.Ping(s.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", res.Status())
	}

	return nil
}

// InsertNews writes a final news record. Records are never updated by this
// pipeline after the initial write.
func (s *Store) InsertNews(ctx context.Context, record domain.NewsRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal news record: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.indices.NewsIndex,
		DocumentID: record.ID,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return fmt.Errorf("index news record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index news record failed: %s", strings.TrimSpace(string(body)))
	}

	return nil
}

// FindCompany looks up a company by name. A missing company is (nil, nil).
func (s *Store) FindCompany(ctx context.Context, name string) (*domain.CompanyRecord, error) {
	req := esapi.GetRequest{
		Index:      s.indices.CompaniesIndex,
		DocumentID: companyDocID(name),
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, fmt.Errorf("get company %s: %w", name, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("get company %s failed: %s", name, res.Status())
	}

	var envelope struct {
		Source domain.CompanyRecord `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode company %s: %w", name, err)
	}

	return &envelope.Source, nil
}

// InsertCompany creates the company document keyed by its normalized name.
// The create op-type makes concurrent runs against the same name collapse
// into a single record instead of racing to a duplicate.
func (s *Store) InsertCompany(ctx context.Context, company domain.CompanyRecord) error {
	payload, err := json.Marshal(company)
	if err != nil {
		return fmt.Errorf("marshal company record: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.indices.CompaniesIndex,
		DocumentID: companyDocID(company.Name),
		OpType:     "create",
		Body:       bytes.NewReader(payload),
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return fmt.Errorf("index company %s: %w", company.Name, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusConflict {
		// Another run created it first; lookup-or-create is satisfied.
		return nil
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index company %s failed: %s", company.Name, strings.TrimSpace(string(body)))
	}

	return nil
}

type watermarkDoc struct {
	Timestamp time.Time `json:"timestamp"`
}

// LastRun retrieves the published-at boundary of the previous run. The
// second return value reports whether a watermark exists at all.
func (s *Store) LastRun(ctx context.Context) (time.Time, bool, error) {
	req := esapi.GetRequest{
		Index:      s.indices.MetadataIndex,
		DocumentID: watermarkDocID,
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get watermark: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return time.Time{}, false, nil
	}
	if res.IsError() {
		return time.Time{}, false, fmt.Errorf("get watermark failed: %s", res.Status())
	}

	var envelope struct {
		Source watermarkDoc `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return time.Time{}, false, fmt.Errorf("decode watermark: %w", err)
	}

	return envelope.Source.Timestamp.UTC(), true, nil
}

// SetLastRun advances the watermark to the max of the accepted timestamps.
// An empty slice is an explicit no-op so an empty run never regresses the
// boundary; the stored value is monotonically non-decreasing.
func (s *Store) SetLastRun(ctx context.Context, accepted []time.Time) error {
	next, ok := maxTime(accepted)
	if !ok {
		return nil
	}

	current, exists, err := s.LastRun(ctx)
	if err != nil {
		return err
	}
	if exists && !next.After(current) {
		return nil
	}

	payload, err := json.Marshal(watermarkDoc{Timestamp: next})
	if err != nil {
		return fmt.Errorf("marshal watermark: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.indices.MetadataIndex,
		DocumentID: watermarkDocID,
		Body:       bytes.NewReader(payload),
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return fmt.Errorf("index watermark: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index watermark failed: %s", strings.TrimSpace(string(body)))
	}

	return nil
}

// Users lists every newsletter recipient.
func (s *Store) Users(ctx context.Context) ([]domain.User, error) {
	query := map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
		"size":  500,
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal users query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.indices.UsersIndex),
		s.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search users failed: %s", res.Status())
	}

	var envelope struct {
		Hits struct {
			Hits []struct {
				Source domain.User `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]domain.User, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		users = append(users, hit.Source)
	}

	return users, nil
}

func companyDocID(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func maxTime(values []time.Time) (time.Time, bool) {
	if len(values) == 0 {
		return time.Time{}, false
	}
	max := values[0]
	for _, v := range values[1:] {
		if v.After(max) {
			max = v
		}
	}
	return max.UTC(), true
}
