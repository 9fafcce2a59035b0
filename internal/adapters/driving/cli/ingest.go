package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	ingestCSV        string
	ingestBatchSize  int
	ingestWindow     int
	ingestOverlap    int
	ingestSkipFailed bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a support article corpus into the vector store",
	Long: `Loads articles from a CSV export, strips their HTML, splits them into
overlapping chunks, embeds the chunks in batches and writes the
vectors to the configured store. Re-running over the same corpus
overwrites records in place rather than duplicating them.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCSV, "csv", "", "path to the corpus CSV file")
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch-size", 0, "chunks per embedding batch (default from config)")
	ingestCmd.Flags().IntVar(&ingestWindow, "window", 0, "chunk window size in characters (default from config)")
	ingestCmd.Flags().IntVar(&ingestOverlap, "overlap", 0, "chunk overlap in characters (default from config)")
	ingestCmd.Flags().BoolVar(&ingestSkipFailed, "skip-failed", false, "skip failed batches instead of halting")
	_ = ingestCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cleanup, err := setupIngest(ctx, ingestCSV, ingestWindow, ingestOverlap, ingestBatchSize, ingestSkipFailed)
	if err != nil {
		return err
	}
	defer cleanup()

	if corpusSource == nil || ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docs, err := corpusSource.Load(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	report, ingestErr := ingestService.Ingest(ctx, docs)

	cmd.Printf("Run %s\n\n", report.RunID)
	cmd.Printf("  Documents: %d\n", report.Documents)
	cmd.Printf("  Chunks:    %d\n", report.Chunks)
	cmd.Printf("  Stored:    %d\n", report.Stored)
	cmd.Printf("  Batches:   %d\n", report.Batches)
	if len(report.FailedBatches) > 0 {
		cmd.Printf("  Failed:    %v\n", report.FailedBatches)
	}

	if ingestErr != nil {
		return fmt.Errorf("ingestion failed: %w", ingestErr)
	}
	return nil
}
