package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
)

// fakeEmbedder returns a fixed vector per text, or fails on demand.
type fakeEmbedder struct {
	mu      sync.Mutex
	model   string
	vectors map[string][]float32
	failOn  map[string]error
	calls   int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		model:   "fake-embedder",
		vectors: make(map[string][]float32),
		failOn:  make(map[string]error),
	}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.failOn[text]; ok {
		return nil, err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int      { return 2 }
func (f *fakeEmbedder) ModelName() string    { return f.model }
func (f *fakeEmbedder) Ping(context.Context) error { return nil }
func (f *fakeEmbedder) Close() error         { return nil }

// fakeStore is an in-memory store with switchable failures.
type fakeStore struct {
	mu          sync.Mutex
	records     map[string]domain.StoredChunk
	pingErr     error
	insertErr   error
	failInsertN int // fail the Nth InsertMany call (1-based), 0 = never
	inserts     int
	searchHits  []domain.RetrievalResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]domain.StoredChunk)}
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) InsertMany(_ context.Context, records []domain.StoredChunk) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	if f.failInsertN != 0 && f.inserts == f.failInsertN {
		return 0, errors.New("write refused")
	}
	for _, rec := range records {
		f.records[rec.Key()] = rec
	}
	return len(records), nil
}

func (f *fakeStore) FindAll(context.Context) ([]domain.StoredChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.StoredChunk, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		return out[i].Index < out[j].Index
	})
	return out, nil
}

func (f *fakeStore) VectorSearch(context.Context, []float32, int, int) ([]domain.RetrievalResult, error) {
	return f.searchHits, nil
}

func (f *fakeStore) Model(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		return rec.Model, nil
	}
	return "", nil
}

func (f *fakeStore) Close(context.Context) error { return nil }

// fakeLLM answers each prompt by prefix match, falling back to a default
// reply. It records prompts for assertion.
type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	replies map[string]string // prompt substring -> reply
	err     error
	prompts []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string, _ driven.CompleteOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	for needle, reply := range f.replies {
		if strings.Contains(prompt, needle) {
			return reply, nil
		}
	}
	return f.reply, nil
}

func (f *fakeLLM) ModelName() string          { return "fake-llm" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

// identityNormaliser passes raw content through as plain text.
type identityNormaliser struct{}

func (identityNormaliser) Normalise(doc domain.Document) domain.Document {
	doc.PlainText = doc.RawContent
	return doc
}

// wordSplitter makes one chunk per whitespace-separated word.
type wordSplitter struct{}

func (wordSplitter) Chunk(doc domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	idx := 0
	for _, word := range splitWords(doc.PlainText) {
		chunks = append(chunks, domain.Chunk{
			SourceID: doc.ID,
			Index:    idx,
			Text:     word,
			Title:    doc.Title,
		})
		idx++
	}
	return chunks
}

func splitWords(s string) []string {
	return strings.Fields(s)
}
