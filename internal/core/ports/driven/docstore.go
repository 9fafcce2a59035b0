package driven

import (
	"context"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
)

// DocumentStore persists embedded chunks and answers similarity queries.
//
// Implementations upsert on the deterministic chunk key (SourceID, Index),
// which makes re-ingestion of an unchanged corpus idempotent: identical
// chunks are overwritten, never duplicated.
type DocumentStore interface {
	// Ping is a fast pre-flight connectivity check, run once before
	// committing to a potentially long batch job. It must not share
	// fate with the main data connection's laziness: a failed ping
	// means the run should not start.
	Ping(ctx context.Context) error

	// InsertMany upserts a batch of records and returns how many were
	// stored. A partial write reports the count that succeeded.
	InsertMany(ctx context.Context, records []domain.StoredChunk) (int, error)

	// FindAll returns every stored record. This is the exact-mode
	// retrieval path and a recall baseline for the delegated index;
	// it does not scale past small corpora.
	FindAll(ctx context.Context) ([]domain.StoredChunk, error)

	// VectorSearch asks the store-side index for the k nearest
	// neighbours of the query vector, considering an internal candidate
	// pool of numCandidates (>= k) to bound recall loss. Scores are
	// index-defined and not comparable with exact-mode cosine scores.
	VectorSearch(ctx context.Context, vector []float32, k, numCandidates int) ([]domain.RetrievalResult, error)

	// Model returns the embedding model stamp of the stored corpus, or
	// "" for an empty store.
	Model(ctx context.Context) (string, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
