package source

import (
	"context"
	"fmt"

	"CompanyNewsScanner/internal/domain"
)

// Request carries all parameters required to read one configured origin.
type Request struct {
	SourceName string
	FeedURL    string
	Query      string
}

// Reader captures a single origin strategy (RSS feed, search API, etc.).
// A fresh Read re-fetches from the origin; readers keep no internal cache.
type Reader interface {
	Name() string
	Read(ctx context.Context, req Request) ([]domain.CandidateItem, error)
}

// Registry keeps a mapping from reader names to their implementations.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{readers: map[string]Reader{}}
}

// Register adds or replaces a reader implementation.
func (r *Registry) Register(reader Reader) {
	if r.readers == nil {
		r.readers = map[string]Reader{}
	}
	r.readers[reader.Name()] = reader
}

// Resolve returns a reader by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Reader, error) {
	if reader, ok := r.readers[name]; ok {
		return reader, nil
	}
	return nil, fmt.Errorf("reader %s is not registered", name)
}
