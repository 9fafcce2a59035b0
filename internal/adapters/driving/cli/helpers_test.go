package cli

import (
	"context"
	"errors"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
)

type mockCorpusSource struct {
	docs []domain.Document
	err  error
}

func (m *mockCorpusSource) Load(context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

type mockIngestService struct {
	report domain.IngestReport
	err    error
	docs   []domain.Document
}

func (m *mockIngestService) Ingest(_ context.Context, docs []domain.Document) (domain.IngestReport, error) {
	m.docs = docs
	return m.report, m.err
}

type mockRetrievalService struct {
	results []domain.RetrievalResult
	err     error
	query   string
	k       int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	m.query = query
	m.k = k
	return m.results, m.err
}

type mockAnswerService struct {
	answer domain.Answer
	err    error
}

func (m *mockAnswerService) Synthesize(_ context.Context, query string, context_ []domain.RetrievalResult) (domain.Answer, error) {
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	answer := m.answer
	answer.Query = query
	answer.Context = context_
	return answer, nil
}

type mockEvalService struct {
	groundedness domain.Evaluation
	relevance    domain.Evaluation
	err          error
}

func (m *mockEvalService) Evaluate(context.Context, domain.Answer) (domain.Evaluation, domain.Evaluation, error) {
	return m.groundedness, m.relevance, m.err
}

var errMockFailure = errors.New("mock failure")

func sampleResults() []domain.RetrievalResult {
	return []domain.RetrievalResult{
		{
			Chunk: domain.StoredChunk{
				Chunk: domain.Chunk{
					SourceID:  "article-1",
					Index:     0,
					Title:     "February Release Notes",
					Permalink: "https://example.com/releases/february",
					Text:      "Dark mode launched in February.",
				},
				Model: "text-embedding-3-small",
			},
			Score: 0.93,
		},
	}
}

// setupTestServices injects mocks for every service the commands touch
// and returns a cleanup that restores the previous wiring.
func setupTestServices() func() {
	oldCorpus := corpusSource
	oldIngest := ingestService
	oldRetrieval := retrievalService
	oldAnswer := answerService
	oldEval := evalService

	corpusSource = &mockCorpusSource{docs: []domain.Document{{ID: "article-1", Title: "February Release Notes"}}}
	ingestService = &mockIngestService{report: domain.IngestReport{
		RunID:     "run-test",
		Documents: 1,
		Chunks:    3,
		Stored:    3,
		Batches:   1,
	}}
	retrievalService = &mockRetrievalService{results: sampleResults()}
	answerService = &mockAnswerService{answer: domain.Answer{Text: "February shipped dark mode."}}
	evalService = &mockEvalService{
		groundedness: domain.Evaluation{Reasoning: "Supported by context.", Verdict: domain.VerdictGrounded},
		relevance:    domain.Evaluation{Reasoning: "Context covers the question.", Verdict: domain.VerdictRelevant},
	}

	return func() {
		corpusSource = oldCorpus
		ingestService = oldIngest
		retrievalService = oldRetrieval
		answerService = oldAnswer
		evalService = oldEval
	}
}
