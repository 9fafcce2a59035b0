package domain

// FailurePolicy decides what happens to the rest of a run when one batch
// fails. The policy is fixed for a whole run, never mixed mid-run.
type FailurePolicy string

const (
	// FailureHalt aborts the run at the first failed batch. This is the
	// default: silent data loss during a corpus load is worse than a
	// stalled run.
	FailureHalt FailurePolicy = "halt"

	// FailureSkip records the failed batch index and moves on to the
	// next batch.
	FailureSkip FailurePolicy = "skip"
)

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// RunID identifies the run in logs.
	RunID string

	// Documents is how many corpus documents were loaded.
	Documents int

	// Chunks is how many chunks were produced across all documents.
	Chunks int

	// Stored is how many chunks the store reported as written.
	Stored int

	// Batches is the total number of batches in the run.
	Batches int

	// FailedBatches lists the zero-based indices of batches that were
	// abandoned. Empty on a fully successful run. Under FailureHalt it
	// holds at most one entry.
	FailedBatches []int
}
