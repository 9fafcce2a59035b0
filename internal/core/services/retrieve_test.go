package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
)

func storedChunk(sourceID string, index int, text string, embedding []float32) domain.StoredChunk {
	return domain.StoredChunk{
		Chunk:     domain.Chunk{SourceID: sourceID, Index: index, Text: text},
		Embedding: embedding,
		Model:     "fake-embedder",
	}
}

func TestNewRetrievalServiceValidation(t *testing.T) {
	_, err := NewRetrievalService(newFakeEmbedder(), newFakeStore(), Strategy("fuzzy"), 50)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRetrieveRejectsBadInput(t *testing.T) {
	svc, err := NewRetrievalService(newFakeEmbedder(), newFakeStore(), StrategyExact, 50)
	require.NoError(t, err)

	_, err = svc.Retrieve(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)

	_, err = svc.Retrieve(context.Background(), "hello", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRetrieveExactRanksByCosine(t *testing.T) {
	store := newFakeStore()
	store.records["a:0"] = storedChunk("a", 0, "exact match", []float32{1, 0})
	store.records["a:1"] = storedChunk("a", 1, "diagonal", []float32{0.7, 0.7})
	store.records["b:0"] = storedChunk("b", 0, "orthogonal", []float32{0, 1})

	embedder := newFakeEmbedder()
	embedder.vectors["releases"] = []float32{1, 0}

	svc, err := NewRetrievalService(embedder, store, StrategyExact, 50)
	require.NoError(t, err)

	results, err := svc.Retrieve(context.Background(), "releases", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "exact match", results[0].Chunk.Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "diagonal", results[1].Chunk.Text)
	assert.InDelta(t, 0.7071067811865476, results[1].Score, 1e-9)
}

func TestRetrieveExactTieBreakIsDeterministic(t *testing.T) {
	store := newFakeStore()
	store.records["b:1"] = storedChunk("b", 1, "b one", []float32{1, 0})
	store.records["a:2"] = storedChunk("a", 2, "a two", []float32{1, 0})
	store.records["a:0"] = storedChunk("a", 0, "a zero", []float32{1, 0})

	svc, err := NewRetrievalService(newFakeEmbedder(), store, StrategyExact, 50)
	require.NoError(t, err)

	for range 5 {
		results, err := svc.Retrieve(context.Background(), "anything", 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "a zero", results[0].Chunk.Text)
		assert.Equal(t, "a two", results[1].Chunk.Text)
		assert.Equal(t, "b one", results[2].Chunk.Text)
	}
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	svc, err := NewRetrievalService(newFakeEmbedder(), newFakeStore(), StrategyExact, 50)
	require.NoError(t, err)

	results, err := svc.Retrieve(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveRefusesModelMismatch(t *testing.T) {
	store := newFakeStore()
	rec := storedChunk("a", 0, "old space", []float32{1, 0})
	rec.Model = "some-older-model"
	store.records["a:0"] = rec

	svc, err := NewRetrievalService(newFakeEmbedder(), store, StrategyExact, 50)
	require.NoError(t, err)

	_, err = svc.Retrieve(context.Background(), "anything", 5)
	assert.ErrorIs(t, err, domain.ErrModelMismatch)
}

func TestRetrieveDelegatedDedupesKeepingBestScore(t *testing.T) {
	store := newFakeStore()
	store.searchHits = []domain.RetrievalResult{
		{Chunk: storedChunk("a", 0, "dup", []float32{1, 0}), Score: 0.9},
		{Chunk: storedChunk("a", 1, "other", []float32{1, 0}), Score: 0.8},
		{Chunk: storedChunk("a", 0, "dup", []float32{1, 0}), Score: 0.95},
		{Chunk: storedChunk("b", 0, "third", []float32{1, 0}), Score: 0.5},
	}

	svc, err := NewRetrievalService(newFakeEmbedder(), store, StrategyDelegated, 50)
	require.NoError(t, err)

	results, err := svc.Retrieve(context.Background(), "anything", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a:0", results[0].Chunk.Key())
	assert.InDelta(t, 0.95, results[0].Score, 1e-9)
	assert.Equal(t, "a:1", results[1].Chunk.Key())
}
