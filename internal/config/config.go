package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Supported vector store backends.
const (
	BackendChromem  = "chromem"
	BackendQdrant   = "qdrant"
	BackendPGVector = "pgvector"
)

// Config holds all configuration for the api and ingest binaries.
type Config struct {
	APIPort   string     `env:"API_PORT" envDefault:"8000"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text"`

	OllamaURL         string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel       string        `env:"OLLAMA_MODEL" envDefault:"minimax-m2.5:cloud"`
	OllamaEmbedModel  string        `env:"OLLAMA_EMBED_MODEL" envDefault:"nomic-embed-text"`
	OllamaPullModels  bool          `env:"OLLAMA_PULL_MODELS" envDefault:"false"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"30s"`

	// EmbedDim must match the output size of OllamaEmbedModel.
	// nomic-embed-text produces 768 dimensions. The qdrant and pgvector
	// collections must be recreated if it changes.
	EmbedDim int `env:"EMBED_DIM" envDefault:"768"`

	VectorBackend  string `env:"VECTOR_BACKEND" envDefault:"chromem"`
	CollectionName string `env:"COLLECTION_NAME" envDefault:"personal_info"`
	ChromaPath     string `env:"CHROMA_PATH" envDefault:"./chroma_db"`
	QdrantURL      string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	DatabaseURL    string `env:"DATABASE_URL"`

	LedgerPath string `env:"LEDGER_PATH" envDefault:"./data/ingest.db"`
	SourceFile string `env:"SOURCE_FILE" envDefault:"aboutme.txt"`
}

// Load reads configuration from environment variables and returns a Config struct.
// If a .env file exists in the current directory or one of its parents, it is
// loaded first. Variables already set in the environment take precedence.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads the environment like Load but does not validate, so callers
// can apply command line overrides before calling Prepare.
func Parse() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Prepare validates the configuration and creates the ledger directory.
func (c *Config) Prepare() error {
	if err := c.Validate(); err != nil {
		return err
	}

	// Create the ledger directory so SQLite can create the file
	if err := os.MkdirAll(filepath.Dir(c.LedgerPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Validate checks field combinations that struct tags cannot express.
func (c *Config) Validate() error {
	c.VectorBackend = strings.ToLower(strings.TrimSpace(c.VectorBackend))
	switch c.VectorBackend {
	case BackendChromem, BackendQdrant, BackendPGVector:
	default:
		return fmt.Errorf("VECTOR_BACKEND must be one of %s, %s, %s; got %q",
			BackendChromem, BackendQdrant, BackendPGVector, c.VectorBackend)
	}

	if c.VectorBackend == BackendPGVector && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the pgvector backend")
	}
	if c.EmbedDim <= 0 {
		return fmt.Errorf("EMBED_DIM must be greater than 0")
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be greater than 0")
	}
	if strings.TrimSpace(c.CollectionName) == "" {
		return fmt.Errorf("COLLECTION_NAME is required")
	}
	if strings.TrimSpace(c.OllamaModel) == "" {
		return fmt.Errorf("OLLAMA_MODEL is required")
	}

	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}

	return nil
}

// loadDotEnv loads .env from the working directory, then walks up a few
// levels to find one at the project root.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: c.LogLevel,
	}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
