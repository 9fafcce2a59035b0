package driven

import (
	"context"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
)

// CorpusSource loads the raw article corpus. Loaders return documents with
// RawContent populated; normalisation to plain text happens downstream.
type CorpusSource interface {
	// Load reads the whole corpus. The corpus is treated as immutable
	// for the duration of a pipeline run.
	Load(ctx context.Context) ([]domain.Document, error)
}
