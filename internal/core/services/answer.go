package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driving"
	"github.com/ragdoc-labs/ragdoc-cli/internal/logger"
)

var _ driving.AnswerService = (*AnswerService)(nil)

const answerMaxTokens = 1024

// AnswerService turns a query and retrieved chunks into a grounded answer.
type AnswerService struct {
	llm driven.LLMService
}

// NewAnswerService creates the answer synthesis service.
func NewAnswerService(llm driven.LLMService) *AnswerService {
	return &AnswerService{llm: llm}
}

// Synthesize prompts the model with the retrieved context and the query.
// An empty context set still produces an answer; the model simply has
// nothing to lean on, and the judges will call that out.
func (s *AnswerService) Synthesize(ctx context.Context, query string, context_ []domain.RetrievalResult) (domain.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return domain.Answer{}, domain.ErrEmptyQuery
	}

	prompt := answerPrompt(query, context_)
	logger.Debug("Answer prompt is %d characters over %d context chunks", len(prompt), len(context_))

	text, err := s.llm.Complete(ctx, prompt, driven.CompleteOptions{MaxTokens: answerMaxTokens})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("synthesize answer: %w", err)
	}

	return domain.Answer{
		Query:   query,
		Text:    strings.TrimSpace(text),
		Context: context_,
	}, nil
}

func answerPrompt(query string, results []domain.RetrievalResult) string {
	blocks := make([]string, len(results))
	for i, res := range results {
		blocks[i] = fmt.Sprintf("Context %d:\n%s", i+1, res.Chunk.Text)
	}
	return fmt.Sprintf(
		"You are a helpful support assistant. Use the following context to answer the user's question.\n\n%s\n\nQuestion: %s\nAnswer:",
		strings.Join(blocks, "\n\n"), query)
}
