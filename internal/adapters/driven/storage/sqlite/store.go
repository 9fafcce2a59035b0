// Package sqlite provides a single-file document store for local and
// offline corpora. Embeddings are stored as JSON arrays; similarity search
// loads the corpus and scores it exactly, so on this backend the delegated
// strategy degenerates to an exhaustive cosine scan.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id         TEXT PRIMARY KEY,
	source_id  TEXT NOT NULL,
	idx        INTEGER NOT NULL,
	text       TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	date       TEXT NOT NULL DEFAULT '',
	permalink  TEXT NOT NULL DEFAULT '',
	categories TEXT NOT NULL DEFAULT '',
	embedding  TEXT NOT NULL,
	model      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS chunks_source ON chunks(source_id, idx);
`

// Store is a SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (and if needed creates) the store at the given path.
// If path is empty it defaults to ~/.ragdoc/data/corpus.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".ragdoc", "data", "corpus.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Ping verifies the database file is readable and writable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// InsertMany upserts the batch inside one transaction, keyed by the
// deterministic chunk identity.
func (s *Store) InsertMany(ctx context.Context, records []domain.StoredChunk) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, source_id, idx, text, title, date, permalink, categories, embedding, model)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			title = excluded.title,
			date = excluded.date,
			permalink = excluded.permalink,
			categories = excluded.categories,
			embedding = excluded.embedding,
			model = excluded.model
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare batch write: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		embedding, err := json.Marshal(r.Embedding)
		if err != nil {
			return 0, fmt.Errorf("encode embedding %s: %w", r.Key(), err)
		}
		if _, err := stmt.ExecContext(ctx,
			r.Key(), r.SourceID, r.Index, r.Text,
			r.Title, r.Date, r.Permalink, r.Categories,
			string(embedding), r.Model,
		); err != nil {
			return 0, fmt.Errorf("write chunk %s: %w", r.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch write: %w", err)
	}
	return len(records), nil
}

// FindAll returns every record ordered by (SourceID, Index).
func (s *Store) FindAll(ctx context.Context) ([]domain.StoredChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id, idx, text, title, date, permalink, categories, embedding, model
		FROM chunks
		ORDER BY source_id, idx
	`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var out []domain.StoredChunk
	for rows.Next() {
		var (
			r        domain.StoredChunk
			embedded string
		)
		if err := rows.Scan(
			&r.SourceID, &r.Index, &r.Text,
			&r.Title, &r.Date, &r.Permalink, &r.Categories,
			&embedded, &r.Model,
		); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(embedded), &r.Embedding); err != nil {
			return nil, fmt.Errorf("decode embedding %s: %w", r.Key(), err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// VectorSearch scores every stored record by cosine similarity.
// SQLite has no vector index, so the candidate pool parameter is moot:
// the scan is exhaustive and recall is perfect.
func (s *Store) VectorSearch(ctx context.Context, vector []float32, k, _ int) ([]domain.RetrievalResult, error) {
	records, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RetrievalResult, 0, len(records))
	for _, r := range records {
		results = append(results, domain.RetrievalResult{
			Chunk: r,
			Score: domain.Cosine(vector, r.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Model returns the embedding model stamp of the stored corpus.
func (s *Store) Model(ctx context.Context) (string, error) {
	var model string
	err := s.db.QueryRowContext(ctx,
		`SELECT model FROM chunks ORDER BY source_id, idx LIMIT 1`,
	).Scan(&model)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query model stamp: %w", err)
	}
	return model, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}
