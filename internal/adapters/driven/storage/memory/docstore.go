// Package memory provides an in-memory document store for tests and tiny
// corpora. Search is exact cosine over every record.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
)

// Ensure DocStore implements the interface.
var _ driven.DocumentStore = (*DocStore)(nil)

// DocStore is a mutex-guarded in-memory document store.
type DocStore struct {
	mu      sync.RWMutex
	records map[string]domain.StoredChunk
}

// NewDocStore creates an empty in-memory store.
func NewDocStore() *DocStore {
	return &DocStore{
		records: make(map[string]domain.StoredChunk),
	}
}

// Ping always succeeds for the in-memory store.
func (s *DocStore) Ping(_ context.Context) error {
	return nil
}

// InsertMany upserts records by their deterministic chunk key.
func (s *DocStore) InsertMany(_ context.Context, records []domain.StoredChunk) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.Key()] = r
	}
	return len(records), nil
}

// FindAll returns every record, ordered by (SourceID, Index) so repeated
// calls over an unchanged store are identical.
func (s *DocStore) FindAll(_ context.Context) ([]domain.StoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.StoredChunk, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		return out[i].Index < out[j].Index
	})
	return out, nil
}

// VectorSearch scores every record by cosine similarity. The candidate
// pool parameter is accepted for interface parity but the scan is always
// exhaustive, so recall is perfect.
func (s *DocStore) VectorSearch(ctx context.Context, vector []float32, k, _ int) ([]domain.RetrievalResult, error) {
	records, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RetrievalResult, 0, len(records))
	for _, r := range records {
		results = append(results, domain.RetrievalResult{
			Chunk: r,
			Score: domain.Cosine(vector, r.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Model returns the embedding model stamp of the stored corpus.
func (s *DocStore) Model(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		return r.Model, nil
	}
	return "", nil
}

// Len reports the number of stored records. Test helper.
func (s *DocStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op for the in-memory store.
func (s *DocStore) Close(_ context.Context) error {
	return nil
}
