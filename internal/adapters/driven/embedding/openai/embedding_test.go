package openai

import "testing"

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	if _, err := NewEmbeddingService(Config{}); err == nil {
		t.Error("expected an error for a missing API key")
	}
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	s, err := NewEmbeddingService(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ModelName() != DefaultModel {
		t.Errorf("expected default model, got %s", s.ModelName())
	}
	if s.Dimensions() != 1536 {
		t.Errorf("expected 1536 dimensions for %s, got %d", DefaultModel, s.Dimensions())
	}
}

func TestNewEmbeddingService_LargeModelDimensions(t *testing.T) {
	s, err := NewEmbeddingService(Config{APIKey: "test-key", Model: "text-embedding-3-large"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Dimensions() != 3072 {
		t.Errorf("expected 3072 dimensions, got %d", s.Dimensions())
	}
}
