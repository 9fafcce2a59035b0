package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driving"
	"github.com/ragdoc-labs/ragdoc-cli/internal/logger"
)

var _ driving.RetrievalService = (*RetrievalService)(nil)

// Strategy selects how candidates are ranked.
type Strategy string

const (
	// StrategyExact loads the full corpus and ranks it by cosine
	// similarity in-process. Exhaustive, deterministic, fine for small
	// corpora and the only option for stores without a native search.
	StrategyExact Strategy = "exact"

	// StrategyDelegated hands ranking to the store's approximate
	// vector search.
	StrategyDelegated Strategy = "delegated"
)

// RetrievalService embeds a query and ranks stored chunks against it.
type RetrievalService struct {
	embedder      driven.EmbeddingService
	store         driven.DocumentStore
	strategy      Strategy
	numCandidates int
}

// NewRetrievalService creates the retrieval service. numCandidates only
// applies to the delegated strategy and is clamped to k at query time.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	store driven.DocumentStore,
	strategy Strategy,
	numCandidates int,
) (*RetrievalService, error) {
	switch strategy {
	case StrategyExact, StrategyDelegated:
	default:
		return nil, fmt.Errorf("%w: unknown retrieval strategy %q", domain.ErrInvalidConfig, strategy)
	}
	return &RetrievalService{
		embedder:      embedder,
		store:         store,
		strategy:      strategy,
		numCandidates: numCandidates,
	}, nil
}

// Retrieve returns the top k chunks for the query, best first. An empty
// corpus yields an empty slice, not an error.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidConfig, k)
	}

	if err := s.checkModel(ctx); err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	switch s.strategy {
	case StrategyDelegated:
		return s.delegated(ctx, vector, k)
	default:
		return s.exact(ctx, vector, k)
	}
}

// checkModel refuses to compare vectors from different embedding spaces.
// A corpus embedded with one model is meaningless under another.
func (s *RetrievalService) checkModel(ctx context.Context) error {
	stored, err := s.store.Model(ctx)
	if err != nil {
		return fmt.Errorf("read stored model: %w", err)
	}
	if stored != "" && stored != s.embedder.ModelName() {
		return fmt.Errorf("%w: corpus embedded with %q, query embedder is %q",
			domain.ErrModelMismatch, stored, s.embedder.ModelName())
	}
	return nil
}

func (s *RetrievalService) exact(ctx context.Context, vector []float32, k int) ([]domain.RetrievalResult, error) {
	records, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	logger.Debug("Exact retrieval over %d stored chunks", len(records))

	results := make([]domain.RetrievalResult, 0, len(records))
	for _, rec := range records {
		results = append(results, domain.RetrievalResult{
			Chunk: rec,
			Score: domain.Cosine(vector, rec.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		a, b := results[i].Chunk, results[j].Chunk
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		return a.Index < b.Index
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *RetrievalService) delegated(ctx context.Context, vector []float32, k int) ([]domain.RetrievalResult, error) {
	numCandidates := s.numCandidates
	if numCandidates < k {
		numCandidates = k
	}
	results, err := s.store.VectorSearch(ctx, vector, k, numCandidates)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	// Approximate indexes can hand back the same chunk more than once;
	// keep the highest-scored occurrence.
	seen := make(map[string]int, len(results))
	deduped := results[:0]
	for _, res := range results {
		key := res.Chunk.Key()
		if at, ok := seen[key]; ok {
			if res.Score > deduped[at].Score {
				deduped[at] = res
			}
			continue
		}
		seen[key] = len(deduped)
		deduped = append(deduped, res)
	}
	if len(deduped) > k {
		deduped = deduped[:k]
	}
	return deduped, nil
}
