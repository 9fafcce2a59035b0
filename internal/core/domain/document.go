package domain

import "fmt"

// Document is a support article loaded from the corpus.
// It is immutable once loaded into a pipeline run.
type Document struct {
	// ID is the corpus identifier for the article. When the corpus does
	// not carry one, the loader derives a stable fallback.
	ID string

	// Title is the article headline.
	Title string

	// Date is the publication date as it appears in the corpus.
	// Kept verbatim; the pipeline never interprets it.
	Date string

	// Permalink is the canonical URL of the article.
	Permalink string

	// Categories is the raw category list from the corpus.
	Categories string

	// RawContent is the original HTML body.
	RawContent string

	// PlainText is RawContent with markup stripped, links unwrapped
	// and images dropped. Populated by the HTML normaliser.
	PlainText string
}

// Chunk is a bounded text window cut from one document's plain text.
// Its identity (SourceID, Index) is deterministic so that re-ingesting an
// unchanged corpus overwrites rather than duplicates.
type Chunk struct {
	// SourceID is the ID of the document this chunk was cut from.
	SourceID string

	// Index is the zero-based, gapless position of the chunk within its
	// source document, in left-to-right text order.
	Index int

	// Text is the chunk content.
	Text string

	// Source metadata carried along for retrieval display and prompts.
	Title      string
	Date       string
	Permalink  string
	Categories string
}

// Key returns the deterministic storage identity of the chunk.
func (c Chunk) Key() string {
	return fmt.Sprintf("%s:%d", c.SourceID, c.Index)
}

// StoredChunk is a chunk together with its embedding as persisted in the
// document store. Records are never mutated after a successful batch write.
type StoredChunk struct {
	Chunk

	// Embedding is the vector representation of Text. All records in one
	// corpus share the same dimensionality.
	Embedding []float32

	// Model identifies the embedding model that produced Embedding.
	// Retrieval against a store stamped with a different model is
	// rejected rather than silently returning garbage rankings.
	Model string
}

// RetrievalResult is a stored chunk scored against a query.
// For exact retrieval Score is cosine similarity in [-1, 1]; for delegated
// retrieval it is whatever the index reports, and the two scales are not
// comparable.
type RetrievalResult struct {
	Chunk StoredChunk
	Score float64
}

// Answer is the synthesized response for one query, together with the
// retrieved context it was grounded on. Answers are ephemeral.
type Answer struct {
	Query   string
	Text    string
	Context []RetrievalResult
}
