package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidConfig indicates invalid pipeline parameters or missing
	// credentials. Fatal, surfaced immediately, never retried.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStoreUnavailable indicates the document store failed its
	// pre-flight ping. Fatal for the run.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrModelMismatch indicates the store was built with a different
	// embedding model than the one configured for retrieval. The two
	// embedding spaces are incompatible, so this is a correctness bug
	// rather than a recoverable condition.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrEmptyQuery indicates a query with no content after trimming.
	ErrEmptyQuery = errors.New("empty query")

	// ErrBadVerdict indicates a judge response that does not follow the
	// fixed REASONING/VERDICT format.
	ErrBadVerdict = errors.New("malformed judge verdict")
)

// BatchError reports a failed ingestion batch. It carries the zero-based
// batch index so a failed run can be resumed or audited without re-running
// with extra logging.
type BatchError struct {
	// Batch is the zero-based index of the failed batch.
	Batch int

	// Stage is "embed" or "write".
	Stage string

	// Err is the underlying cause.
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d: %s failed: %v", e.Batch, e.Stage, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
