package cli

import (
	"github.com/spf13/cobra"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driving"
	"github.com/ragdoc-labs/ragdoc-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are injected before Execute, either by the bootstrap wiring
// in runtime.go or by tests. Commands nil-check what they need.
var (
	corpusSource     driven.CorpusSource
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	answerService    driving.AnswerService
	evalService      driving.EvalService
)

// Persistent flags.
var (
	verboseFlag bool
	configPath  string
	storeFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "ragdoc",
	Short: "RAG pipeline over a support article corpus",
	Long: `ragdoc ingests a support article corpus into a vector store and
answers questions against it, with optional LLM-judged evaluation
of answer groundedness and retrieval precision.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.ragdoc/config.toml)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "store backend override: mongo or sqlite")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
