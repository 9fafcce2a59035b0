package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest", ingestCmd.Use)
}

func TestIngestCmd_Long(t *testing.T) {
	assert.Contains(t, ingestCmd.Long, "CSV")
	assert.Contains(t, ingestCmd.Long, "chunks")
	assert.Contains(t, ingestCmd.Long, "overwrites")
}

func TestIngestCmd_RequiresCSVFlag(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "csv")
}

func TestIngestCmd_HasBatchSizeFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("batch-size")
	require.NotNil(t, flag, "batch-size flag should exist")
	assert.Equal(t, "0", flag.DefValue)
}

func TestIngestCmd_PrintsReport(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--csv", "corpus.csv"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestCSV = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Run run-test")
	assert.Contains(t, buf.String(), "Documents: 1")
	assert.Contains(t, buf.String(), "Chunks:    3")
	assert.Contains(t, buf.String(), "Stored:    3")
}

func TestIngestCmd_PassesLoadedDocsToService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	svc := ingestService.(*mockIngestService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--csv", "corpus.csv"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestCSV = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	require.Len(t, svc.docs, 1)
	assert.Equal(t, "article-1", svc.docs[0].ID)
}

func TestIngestCmd_CorpusLoadFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	corpusSource = &mockCorpusSource{err: errMockFailure}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "--csv", "corpus.csv"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestCSV = ""
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "load corpus")
}

func TestIngestCmd_ReportsFailedBatches(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ingestService = &mockIngestService{
		report: domain.IngestReport{
			RunID:         "run-fail",
			Documents:     1,
			Chunks:        6,
			Stored:        4,
			Batches:       3,
			FailedBatches: []int{1},
		},
		err: &domain.BatchError{Batch: 1, Stage: "embed", Err: errMockFailure},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "--csv", "corpus.csv"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestCSV = ""
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingestion failed")
	// The partial report still prints before the error surfaces.
	assert.Contains(t, buf.String(), "Stored:    4")
	assert.Contains(t, buf.String(), "Failed:    [1]")
}
