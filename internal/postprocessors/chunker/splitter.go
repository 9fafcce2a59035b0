// Package chunker splits plain text into overlapping windows for embedding.
//
// Splitting is separator-aware: a window is cut at the highest-priority
// separator (paragraph break, line break, sentence punctuation, space) that
// keeps it within the window size, falling back to a hard cut when the text
// has no separator to offer. Consecutive windows overlap so that context at
// a boundary is not lost to retrieval.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
)

// DefaultWindowSize is the default window size in bytes.
const DefaultWindowSize = 1000

// DefaultOverlap is the default overlap between windows in bytes.
const DefaultOverlap = 200

// separators in priority order. A window prefers to end at the rightmost
// occurrence of the highest-priority separator it contains.
var separators = []string{"\n\n", "\n", ". ", "! ", "? ", " "}

// Splitter cuts a document's plain text into overlapping chunks.
// A Splitter is pure and deterministic: the same text and parameters
// always produce the identical chunk sequence, which keeps index rebuilds
// diff-free.
type Splitter struct {
	windowSize int
	overlap    int
}

// New creates a Splitter. windowSize must be positive and overlap must
// satisfy 0 <= overlap < windowSize.
func New(windowSize, overlap int) (*Splitter, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", domain.ErrInvalidConfig, windowSize)
	}
	if overlap < 0 || overlap >= windowSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidConfig, windowSize, overlap)
	}
	return &Splitter{windowSize: windowSize, overlap: overlap}, nil
}

// Chunk splits the document's plain text into chunks carrying the
// document's metadata. Empty text produces no chunks; text within the
// window size produces exactly one.
//
// Chunk texts are verbatim substrings of the input: concatenating them in
// index order, dropping each chunk's leading overlap with its predecessor,
// reconstructs the original text.
func (s *Splitter) Chunk(doc domain.Document) []domain.Chunk {
	windows := s.split(doc.PlainText)

	chunks := make([]domain.Chunk, 0, len(windows))
	for i, text := range windows {
		chunks = append(chunks, domain.Chunk{
			SourceID:   doc.ID,
			Index:      i,
			Text:       text,
			Title:      doc.Title,
			Date:       doc.Date,
			Permalink:  doc.Permalink,
			Categories: doc.Categories,
		})
	}
	return chunks
}

// split produces the window texts for one input.
func (s *Splitter) split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.windowSize {
		return []string{text}
	}

	var windows []string
	start := 0
	for start < len(text) {
		end := s.cut(text, start)
		windows = append(windows, text[start:end])

		next := end - s.overlap
		if end == len(text) {
			// The window was clipped by the end of the text. Keep
			// advancing by the notional stride so trailing text
			// still gets its own window.
			next = start + s.windowSize - s.overlap
			if next >= len(text) {
				break
			}
		} else if next <= start {
			// Degenerate short window; never move backwards.
			next = end
		}
		start = next
	}
	return windows
}

// cut finds where the window starting at start should end: the rightmost
// occurrence of the highest-priority separator within the window, or a
// hard cut at the window size when no separator fits.
func (s *Splitter) cut(text string, start int) int {
	limit := start + s.windowSize
	if limit >= len(text) {
		return len(text)
	}

	window := text[start:limit]
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return start + idx + len(sep)
		}
	}

	// Hard cut. Back up to a rune boundary so multi-byte characters
	// are never split in half.
	for limit > start+1 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return limit
}
