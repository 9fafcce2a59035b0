package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driving"
	"github.com/ragdoc-labs/ragdoc-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Normaliser converts a document's raw content to plain text.
type Normaliser interface {
	Normalise(doc domain.Document) domain.Document
}

// Splitter cuts a document's plain text into chunks.
type Splitter interface {
	Chunk(doc domain.Document) []domain.Chunk
}

// IngestService runs the write path: normalise, chunk, embed in batches,
// store. Within a batch, chunks are embedded concurrently; the batch
// write waits for every embedding to resolve, so a batch is either
// embedded in full and written in one call, or abandoned whole. Batches
// themselves run sequentially, which keeps memory bounded and progress
// reporting monotonic.
type IngestService struct {
	normaliser Normaliser
	splitter   Splitter
	embedder   driven.EmbeddingService
	store      driven.DocumentStore
	batchSize  int
	policy     domain.FailurePolicy
}

// NewIngestService creates the ingestion service.
func NewIngestService(
	normaliser Normaliser,
	splitter Splitter,
	embedder driven.EmbeddingService,
	store driven.DocumentStore,
	batchSize int,
	policy domain.FailurePolicy,
) (*IngestService, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", domain.ErrInvalidConfig, batchSize)
	}
	switch policy {
	case domain.FailureHalt, domain.FailureSkip:
	default:
		return nil, fmt.Errorf("%w: unknown failure policy %q", domain.ErrInvalidConfig, policy)
	}
	return &IngestService{
		normaliser: normaliser,
		splitter:   splitter,
		embedder:   embedder,
		store:      store,
		batchSize:  batchSize,
		policy:     policy,
	}, nil
}

// Ingest processes the loaded corpus. It pings the store before starting
// so a dead store fails the run up front rather than at the first write.
// The returned report is valid even when an error is returned.
func (s *IngestService) Ingest(ctx context.Context, docs []domain.Document) (domain.IngestReport, error) {
	report := domain.IngestReport{
		RunID:     uuid.New().String(),
		Documents: len(docs),
	}

	logger.Section("Ingestion")
	logger.Info("Run %s: %d documents", report.RunID, len(docs))

	if err := s.store.Ping(ctx); err != nil {
		return report, fmt.Errorf("store pre-flight: %w", err)
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		doc = s.normaliser.Normalise(doc)
		chunks = append(chunks, s.splitter.Chunk(doc)...)
	}
	report.Chunks = len(chunks)
	report.Batches = (len(chunks) + s.batchSize - 1) / s.batchSize
	logger.Info("Run %s: %d chunks in %d batches of %d", report.RunID, len(chunks), report.Batches, s.batchSize)

	for b := 0; b < report.Batches; b++ {
		// Abort points sit between batches: committed batches stay
		// committed, and deterministic chunk identity makes a re-run
		// overwrite instead of duplicate.
		if err := ctx.Err(); err != nil {
			return report, err
		}

		start := b * s.batchSize
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		records, err := s.embedBatch(ctx, batch)
		if err != nil {
			batchErr := &domain.BatchError{Batch: b, Stage: "embed", Err: err}
			report.FailedBatches = append(report.FailedBatches, b)
			if s.policy == domain.FailureHalt {
				return report, batchErr
			}
			logger.Warn("%v (skipping)", batchErr)
			continue
		}

		n, err := s.store.InsertMany(ctx, records)
		report.Stored += n
		if err != nil {
			batchErr := &domain.BatchError{Batch: b, Stage: "write", Err: err}
			report.FailedBatches = append(report.FailedBatches, b)
			if s.policy == domain.FailureHalt {
				return report, batchErr
			}
			logger.Warn("%v (skipping)", batchErr)
			continue
		}

		logger.Progress(b+1, report.Batches, "inserted %d records (%d/%d total)", n, report.Stored, len(chunks))
	}

	return report, nil
}

// embedBatch embeds every chunk of one batch with bounded concurrency and
// returns the records in batch order. Any failure abandons the whole
// batch; nothing from a partially embedded batch is ever written.
func (s *IngestService) embedBatch(ctx context.Context, batch []domain.Chunk) ([]domain.StoredChunk, error) {
	records := make([]domain.StoredChunk, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(batch))
	for i, chunk := range batch {
		g.Go(func() error {
			embedding, err := s.embedder.Embed(gctx, chunk.Text)
			if err != nil {
				return fmt.Errorf("chunk %s: %w", chunk.Key(), err)
			}
			records[i] = domain.StoredChunk{
				Chunk:     chunk,
				Embedding: embedding,
				Model:     s.embedder.ModelName(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
