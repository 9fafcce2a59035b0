package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
)

// Store backends.
const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Config is the root ragdoc configuration.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Embedder  EmbedderConfig  `toml:"embedder"`
	LLM       LLMConfig       `toml:"llm"`
	Chunker   ChunkerConfig   `toml:"chunker"`
	Ingest    IngestConfig    `toml:"ingest"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	// Backend is "mongo" or "sqlite".
	Backend string `toml:"backend"`

	// Mongo settings.
	Database    string `toml:"database"`
	Collection  string `toml:"collection"`
	VectorIndex string `toml:"vector_index"`

	// SQLite settings.
	Path string `toml:"path"`
}

// EmbedderConfig configures the embedding service.
type EmbedderConfig struct {
	Model             string  `toml:"model"`
	BaseURL           string  `toml:"base_url"`
	TimeoutSecs       int     `toml:"timeout_secs"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LLMConfig configures the completion models. Judges favour a more
// capable model than answer synthesis.
type LLMConfig struct {
	AnswerModel string `toml:"answer_model"`
	JudgeModel  string `toml:"judge_model"`
	BaseURL     string `toml:"base_url"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// ChunkerConfig configures the text splitter.
type ChunkerConfig struct {
	WindowSize int `toml:"window_size"`
	Overlap    int `toml:"overlap"`
}

// IngestConfig configures the embedding batcher.
type IngestConfig struct {
	BatchSize int `toml:"batch_size"`

	// OnFailure is "halt" or "skip". Halt is the default: silent data
	// loss during a corpus load is worse than a stalled run.
	OnFailure string `toml:"on_failure"`
}

// RetrievalConfig configures the read path.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`

	// NumCandidates is the delegated index's internal candidate pool.
	NumCandidates int `toml:"num_candidates"`
}

// Secrets are credentials read from the environment, never from the
// config file.
type Secrets struct {
	OpenAIKey string
	MongoURI  string
}

// Load reads the config at path, or defaults when the file is absent.
// An empty path means ~/.ragdoc/config.toml.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".ragdoc", "config.toml")
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := defaultConfig()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSecrets reads credentials from the environment, seeding it from
// .env.local when present. The OpenAI key is always required; the Mongo
// URI only when the mongo backend is selected. A missing credential is a
// fatal configuration error.
func LoadSecrets(backend string) (Secrets, error) {
	// Best effort; the variables may already be exported.
	_ = godotenv.Load(".env.local")

	s := Secrets{
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
		MongoURI:  os.Getenv("MONGODB_URL"),
	}
	if s.OpenAIKey == "" {
		return Secrets{}, fmt.Errorf("%w: OPENAI_API_KEY not set in environment", domain.ErrInvalidConfig)
	}
	if backend == BackendMongo && s.MongoURI == "" {
		return Secrets{}, fmt.Errorf("%w: MONGODB_URL not set in environment", domain.ErrInvalidConfig)
	}
	return s, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendMongo
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "text-embedding-3-small"
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 60
	}
	if cfg.LLM.AnswerModel == "" {
		cfg.LLM.AnswerModel = "gpt-3.5-turbo"
	}
	if cfg.LLM.JudgeModel == "" {
		cfg.LLM.JudgeModel = "gpt-4"
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 120
	}
	if cfg.Chunker.WindowSize == 0 {
		cfg.Chunker.WindowSize = 1000
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 200
	}
	if cfg.Ingest.BatchSize == 0 {
		cfg.Ingest.BatchSize = 20
	}
	if cfg.Ingest.OnFailure == "" {
		cfg.Ingest.OnFailure = string(domain.FailureHalt)
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.NumCandidates == 0 {
		cfg.Retrieval.NumCandidates = 50
	}
}

func validate(cfg *Config) error {
	switch cfg.Store.Backend {
	case BackendMongo, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidConfig, cfg.Store.Backend)
	}
	switch domain.FailurePolicy(cfg.Ingest.OnFailure) {
	case domain.FailureHalt, domain.FailureSkip:
	default:
		return fmt.Errorf("%w: on_failure must be halt or skip, got %q", domain.ErrInvalidConfig, cfg.Ingest.OnFailure)
	}
	if cfg.Ingest.BatchSize < 0 {
		return fmt.Errorf("%w: batch_size must be positive", domain.ErrInvalidConfig)
	}
	return nil
}
