// Package mongo provides a document store backed by MongoDB. Delegated
// similarity search uses an Atlas $vectorSearch aggregation over a
// pre-built named index on the embedding field; exact mode reads the whole
// collection and scores it client-side.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultDatabase    = "supportdocs"
	DefaultCollection  = "embeddings"
	DefaultVectorIndex = "supportdocs_index"

	// pingTimeout bounds the pre-flight connectivity check so a dead
	// cluster fails the run in seconds, not at the first batch write.
	pingTimeout = 5 * time.Second
)

// Config holds connection settings for the MongoDB store.
type Config struct {
	// URI is the connection string (required).
	URI string

	// Database name (default: supportdocs).
	Database string

	// Collection name (default: embeddings).
	Collection string

	// VectorIndex is the name of the pre-built Atlas vector index over
	// the embedding field (default: supportdocs_index).
	VectorIndex string
}

// record is the persisted document shape. Field names match the corpus
// collection the original ingestion created, so existing indexes keep
// working.
type record struct {
	ID         string    `bson:"_id"`
	SourceID   string    `bson:"source_id"`
	ChunkIndex int       `bson:"chunk_index"`
	Title      string    `bson:"title"`
	Date       string    `bson:"date"`
	Permalink  string    `bson:"permalink"`
	Categories string    `bson:"categories"`
	Chunk      string    `bson:"chunk"`
	Embedding  []float32 `bson:"embedding"`
	Model      string    `bson:"model"`
	Score      float64   `bson:"score,omitempty"`
}

func (r record) toDomain() domain.StoredChunk {
	return domain.StoredChunk{
		Chunk: domain.Chunk{
			SourceID:   r.SourceID,
			Index:      r.ChunkIndex,
			Text:       r.Chunk,
			Title:      r.Title,
			Date:       r.Date,
			Permalink:  r.Permalink,
			Categories: r.Categories,
		},
		Embedding: r.Embedding,
		Model:     r.Model,
	}
}

// Store is a MongoDB-backed document store.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	index  string
}

// NewStore connects to MongoDB. The connection is lazy; call Ping before
// committing to a long batch job.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("%w: MongoDB URI is required", domain.ErrInvalidConfig)
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.VectorIndex == "" {
		cfg.VectorIndex = DefaultVectorIndex
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(pingTimeout))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		index:  cfg.VectorIndex,
	}, nil
}

// Ping verifies the cluster is reachable within a bounded timeout.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// InsertMany upserts the batch keyed by the deterministic chunk identity,
// so re-ingesting an unchanged corpus replaces records instead of
// duplicating them. Returns how many records the store acknowledged.
func (s *Store) InsertMany(ctx context.Context, records []domain.StoredChunk) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	models := make([]mongo.WriteModel, len(records))
	for i, r := range records {
		doc := record{
			ID:         r.Key(),
			SourceID:   r.SourceID,
			ChunkIndex: r.Index,
			Title:      r.Title,
			Date:       r.Date,
			Permalink:  r.Permalink,
			Categories: r.Categories,
			Chunk:      r.Text,
			Embedding:  r.Embedding,
			Model:      r.Model,
		}
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: doc.ID}}).
			SetReplacement(doc).
			SetUpsert(true)
	}

	res, err := s.coll.BulkWrite(ctx, models)
	if err != nil {
		// A bulk write can fail part-way; report what landed.
		stored := 0
		if res != nil {
			stored = int(res.UpsertedCount + res.MatchedCount)
		}
		return stored, fmt.Errorf("bulk write: %w", err)
	}
	return int(res.UpsertedCount + res.MatchedCount), nil
}

// FindAll returns every record ordered by (SourceID, Index).
func (s *Store) FindAll(ctx context.Context) ([]domain.StoredChunk, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().
		SetSort(bson.D{{Key: "source_id", Value: 1}, {Key: "chunk_index", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find all chunks: %w", err)
	}
	defer cur.Close(ctx)

	var records []record
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode chunks: %w", err)
	}

	out := make([]domain.StoredChunk, len(records))
	for i, r := range records {
		out[i] = r.toDomain()
	}
	return out, nil
}

// VectorSearch delegates to the Atlas vector index. Scores come back via
// the vectorSearchScore metadata and are on the index's own scale, not
// the exact-mode cosine scale.
func (s *Store) VectorSearch(ctx context.Context, vector []float32, k, numCandidates int) ([]domain.RetrievalResult, error) {
	if numCandidates < k {
		numCandidates = k
	}

	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: s.index},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: numCandidates},
			{Key: "limit", Value: k},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer cur.Close(ctx)

	var records []record
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode vector search results: %w", err)
	}

	results := make([]domain.RetrievalResult, len(records))
	for i, r := range records {
		results[i] = domain.RetrievalResult{Chunk: r.toDomain(), Score: r.Score}
	}
	return results, nil
}

// Model returns the embedding model stamp of the stored corpus.
func (s *Store) Model(ctx context.Context) (string, error) {
	var r record
	err := s.coll.FindOne(ctx, bson.D{}, options.FindOne().
		SetSort(bson.D{{Key: "source_id", Value: 1}, {Key: "chunk_index", Value: 1}}).
		SetProjection(bson.D{{Key: "model", Value: 1}})).
		Decode(&r)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query model stamp: %w", err)
	}
	return r.Model, nil
}

// Close disconnects from the cluster.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
