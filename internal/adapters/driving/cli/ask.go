package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// defaultQuery keeps the bare `ragdoc ask` invocation useful against the
// sample corpus.
const defaultQuery = "what features were released in february?"

var (
	askQuery string
	askEval  bool
	askTopK  int
	askExact bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question against the ingested corpus",
	Long: `Embeds the query, retrieves the closest chunks from the store and
synthesizes an answer grounded in them. With --eval, two LLM judges
additionally grade the answer for groundedness and the retrieved
context for relevance.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askQuery, "query", "q", defaultQuery, "question to answer")
	askCmd.Flags().BoolVar(&askEval, "eval", false, "judge the answer after synthesis")
	askCmd.Flags().IntVar(&askTopK, "k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askExact, "exact", false, "force exhaustive in-process ranking")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cleanup, err := setupAsk(ctx, askExact, askEval)
	if err != nil {
		return err
	}
	defer cleanup()

	if retrievalService == nil || answerService == nil {
		return errors.New("answer service not configured")
	}
	if askEval && evalService == nil {
		return errors.New("evaluation service not configured")
	}

	k := askTopK
	if k == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		k = cfg.Retrieval.TopK
	}

	results, err := retrievalService.Retrieve(ctx, askQuery, k)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	answer, err := answerService.Synthesize(ctx, askQuery, results)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	cmd.Printf("Question: %s\n\n", answer.Query)
	cmd.Printf("Answer: %s\n", answer.Text)

	if len(results) > 0 {
		cmd.Println("\nSources:")
		for i, res := range results {
			title := res.Chunk.Title
			if title == "" {
				title = res.Chunk.SourceID
			}
			cmd.Printf("  [%d] %s (%.4f)\n", i+1, title, res.Score)
			if res.Chunk.Permalink != "" {
				cmd.Printf("      %s\n", res.Chunk.Permalink)
			}
		}
	}

	if !askEval {
		return nil
	}

	groundedness, relevance, err := evalService.Evaluate(ctx, answer)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	cmd.Println("\nEvaluation:")
	cmd.Printf("  Groundedness: %s\n", groundedness.Verdict)
	cmd.Printf("    %s\n", groundedness.Reasoning)
	cmd.Printf("  Relevance:    %s\n", relevance.Verdict)
	cmd.Printf("    %s\n", relevance.Reasoning)

	return nil
}
