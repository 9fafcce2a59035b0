package driving

import (
	"context"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
)

// IngestService runs the write path over loaded documents:
// normalise, chunk, embed in batches, store.
type IngestService interface {
	Ingest(ctx context.Context, docs []domain.Document) (domain.IngestReport, error)
}

// RetrievalService runs the read path up to ranked chunks.
type RetrievalService interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error)
}

// AnswerService synthesizes a grounded answer from retrieved context.
type AnswerService interface {
	Synthesize(ctx context.Context, query string, context []domain.RetrievalResult) (domain.Answer, error)
}

// EvalService judges an answer for groundedness and its context for
// relevance.
type EvalService interface {
	Evaluate(ctx context.Context, answer domain.Answer) (groundedness, relevance domain.Evaluation, err error)
}
