package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driving"
	"github.com/ragdoc-labs/ragdoc-cli/internal/logger"
)

var _ driving.EvalService = (*EvalService)(nil)

const judgeMaxTokens = 512

// EvalService judges an answer on two axes: groundedness (is every claim
// supported by the retrieved context) and retrieval precision (was the
// retrieved context actually relevant to the question). Both judges run
// with temperature zero so verdicts are as repeatable as the model allows.
type EvalService struct {
	judge driven.LLMService
}

// NewEvalService creates the evaluation service. The judge model is
// deliberately separate from the answering model; a model grading its
// own homework is the classic failure mode here.
func NewEvalService(judge driven.LLMService) *EvalService {
	return &EvalService{judge: judge}
}

// Evaluate runs both judges concurrently over the answer and returns
// their evaluations. A malformed judge reply surfaces as an error
// wrapping domain.ErrBadVerdict rather than a silent pass.
func (s *EvalService) Evaluate(ctx context.Context, answer domain.Answer) (domain.Evaluation, domain.Evaluation, error) {
	logger.Section("Evaluation")

	var groundedness, relevance domain.Evaluation

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groundedness, err = s.runJudge(gctx, groundednessPrompt(answer),
			domain.VerdictGrounded, domain.VerdictNotGrounded)
		if err != nil {
			return fmt.Errorf("groundedness judge for %q: %w", answer.Query, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		relevance, err = s.runJudge(gctx, relevancePrompt(answer),
			domain.VerdictRelevant, domain.VerdictNotRelevant)
		if err != nil {
			return fmt.Errorf("relevance judge for %q: %w", answer.Query, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Evaluation{}, domain.Evaluation{}, err
	}

	return groundedness, relevance, nil
}

func (s *EvalService) runJudge(ctx context.Context, prompt string, allowed ...domain.Verdict) (domain.Evaluation, error) {
	raw, err := s.judge.Complete(ctx, prompt, driven.CompleteOptions{
		MaxTokens:   judgeMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return domain.Evaluation{}, err
	}
	return domain.ParseEvaluation(raw, allowed...)
}

func contextBlock(results []domain.RetrievalResult) string {
	blocks := make([]string, len(results))
	for i, res := range results {
		blocks[i] = fmt.Sprintf("Context %d:\n%s", i+1, res.Chunk.Text)
	}
	return strings.Join(blocks, "\n\n")
}

func groundednessPrompt(answer domain.Answer) string {
	return fmt.Sprintf(`You are a strict evaluator. Determine whether the answer is fully grounded in the provided context. An answer is grounded only if every claim it makes is supported by the context. If the answer introduces information not present in the context, it is not grounded.

Context:
%s

Answer:
%s

Respond in exactly this format:
REASONING: <your step-by-step reasoning>
VERDICT: GROUNDED or NOT_GROUNDED`, contextBlock(answer.Context), answer.Text)
}

func relevancePrompt(answer domain.Answer) string {
	return fmt.Sprintf(`You are a strict evaluator. Determine whether the retrieved context is relevant to the question. The context is relevant only if it contains information that helps answer the question. Ignore the answer itself; judge the context against the question.

Question:
%s

Context:
%s

Respond in exactly this format:
REASONING: <your step-by-step reasoning>
VERDICT: RELEVANT or NOT_RELEVANT`, answer.Query, contextBlock(answer.Context))
}
