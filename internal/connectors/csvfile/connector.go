// Package csvfile loads the support-article corpus from a CSV export.
//
// The export carries one article per row with columns id, Title, Date,
// Permalink, Categories and Content, where Content is the HTML body.
// The id column is optional; when absent or blank the permalink and then
// the row ordinal serve as a stable fallback identity.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.CorpusSource = (*Connector)(nil)

// Required columns of the corpus export.
var requiredColumns = []string{"Title", "Content"}

// Connector reads articles from a CSV file on disk.
type Connector struct {
	path string
}

// New creates a connector for the CSV file at path.
func New(path string) *Connector {
	return &Connector{path: path}
}

// Load reads the whole corpus into memory. Rows are keyed by the header
// line, so column order in the export does not matter. Blank lines are
// skipped; rows with a deviating field count are an error.
func (c *Connector) Load(ctx context.Context) ([]domain.Document, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 0 // enforce the header's field count

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("corpus %s: %w: empty file", c.path, domain.ErrInvalidConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("read corpus header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("corpus %s: %w: missing column %q", c.path, domain.ErrInvalidConfig, name)
		}
	}

	field := func(row []string, name string) string {
		if i, ok := col[name]; ok {
			return row[i]
		}
		return ""
	}

	var docs []domain.Document
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read corpus row %d: %w", row, err)
		}

		doc := domain.Document{
			ID:         field(rec, "id"),
			Title:      field(rec, "Title"),
			Date:       field(rec, "Date"),
			Permalink:  field(rec, "Permalink"),
			Categories: field(rec, "Categories"),
			RawContent: field(rec, "Content"),
		}
		if doc.ID == "" {
			doc.ID = doc.Permalink
		}
		if doc.ID == "" {
			doc.ID = "row-" + strconv.Itoa(row)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
