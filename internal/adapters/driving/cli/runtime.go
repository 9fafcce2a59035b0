package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ragdoc-labs/ragdoc-cli/internal/adapters/driven/config/file"
	openaiembed "github.com/ragdoc-labs/ragdoc-cli/internal/adapters/driven/embedding/openai"
	openaillm "github.com/ragdoc-labs/ragdoc-cli/internal/adapters/driven/llm/openai"
	"github.com/ragdoc-labs/ragdoc-cli/internal/adapters/driven/storage/mongo"
	"github.com/ragdoc-labs/ragdoc-cli/internal/adapters/driven/storage/sqlite"
	"github.com/ragdoc-labs/ragdoc-cli/internal/connectors/csvfile"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/ports/driven"
	"github.com/ragdoc-labs/ragdoc-cli/internal/core/services"
	"github.com/ragdoc-labs/ragdoc-cli/internal/logger"
	"github.com/ragdoc-labs/ragdoc-cli/internal/normalisers/html"
	"github.com/ragdoc-labs/ragdoc-cli/internal/postprocessors/chunker"
)

// noopCleanup is returned when tests have already injected services.
func noopCleanup() {}

func loadConfig() (*file.Config, error) {
	cfg, err := file.Load(configPath)
	if err != nil {
		return nil, err
	}
	if storeFlag != "" {
		switch storeFlag {
		case file.BackendMongo, file.BackendSQLite:
			cfg.Store.Backend = storeFlag
		default:
			return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidConfig, storeFlag)
		}
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *file.Config, secrets file.Secrets) (driven.DocumentStore, error) {
	switch cfg.Store.Backend {
	case file.BackendSQLite:
		logger.Debug("Opening SQLite store at %q", cfg.Store.Path)
		return sqlite.NewStore(cfg.Store.Path)
	default:
		logger.Debug("Connecting to MongoDB database %q", cfg.Store.Database)
		return mongo.NewStore(ctx, mongo.Config{
			URI:         secrets.MongoURI,
			Database:    cfg.Store.Database,
			Collection:  cfg.Store.Collection,
			VectorIndex: cfg.Store.VectorIndex,
		})
	}
}

func newEmbedder(cfg *file.Config, secrets file.Secrets) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:            secrets.OpenAIKey,
		BaseURL:           cfg.Embedder.BaseURL,
		Model:             cfg.Embedder.Model,
		Timeout:           time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Embedder.RequestsPerSecond,
	})
}

func newLLM(cfg *file.Config, secrets file.Secrets, model string) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.Config{
		APIKey:  secrets.OpenAIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   model,
		Timeout: time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
}

// setupIngest wires the write path. Flag values that are zero fall back
// to the config file.
func setupIngest(ctx context.Context, csvPath string, windowSize, overlap, batchSize int, skipFailed bool) (func(), error) {
	if ingestService != nil && corpusSource != nil {
		return noopCleanup, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	secrets, err := file.LoadSecrets(cfg.Store.Backend)
	if err != nil {
		return nil, err
	}

	if windowSize == 0 {
		windowSize = cfg.Chunker.WindowSize
	}
	if overlap == 0 {
		overlap = cfg.Chunker.Overlap
	}
	if batchSize == 0 {
		batchSize = cfg.Ingest.BatchSize
	}
	policy := domain.FailurePolicy(cfg.Ingest.OnFailure)
	if skipFailed {
		policy = domain.FailureSkip
	}

	splitter, err := chunker.New(windowSize, overlap)
	if err != nil {
		return nil, err
	}
	embedder, err := newEmbedder(cfg, secrets)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg, secrets)
	if err != nil {
		return nil, err
	}

	svc, err := services.NewIngestService(html.New(), splitter, embedder, store, batchSize, policy)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	corpusSource = csvfile.New(csvPath)
	ingestService = svc

	return func() {
		_ = embedder.Close()
		_ = store.Close(context.Background())
		corpusSource = nil
		ingestService = nil
	}, nil
}

// setupAsk wires the read path: retrieval, synthesis and, when asked
// for, evaluation.
func setupAsk(ctx context.Context, exact, withEval bool) (func(), error) {
	if retrievalService != nil && answerService != nil && (!withEval || evalService != nil) {
		return noopCleanup, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	secrets, err := file.LoadSecrets(cfg.Store.Backend)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(cfg, secrets)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg, secrets)
	if err != nil {
		return nil, err
	}

	// SQLite has no native vector index, so it always ranks exactly.
	strategy := services.StrategyDelegated
	if exact || cfg.Store.Backend == file.BackendSQLite {
		strategy = services.StrategyExact
	}

	retriever, err := services.NewRetrievalService(embedder, store, strategy, cfg.Retrieval.NumCandidates)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	answerLLM, err := newLLM(cfg, secrets, cfg.LLM.AnswerModel)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	retrievalService = retriever
	answerService = services.NewAnswerService(answerLLM)

	var judgeLLM driven.LLMService
	if withEval {
		judgeLLM, err = newLLM(cfg, secrets, cfg.LLM.JudgeModel)
		if err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		evalService = services.NewEvalService(judgeLLM)
	}

	return func() {
		_ = embedder.Close()
		_ = answerLLM.Close()
		if judgeLLM != nil {
			_ = judgeLLM.Close()
		}
		_ = store.Close(context.Background())
		retrievalService = nil
		answerService = nil
		evalService = nil
	}, nil
}
