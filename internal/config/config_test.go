package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envVars = []string{
	"API_PORT", "LOG_LEVEL", "LOG_FORMAT",
	"OLLAMA_URL", "OLLAMA_MODEL", "OLLAMA_EMBED_MODEL", "OLLAMA_PULL_MODELS",
	"GENERATION_TIMEOUT", "EMBED_DIM",
	"VECTOR_BACKEND", "COLLECTION_NAME", "CHROMA_PATH", "QDRANT_URL", "DATABASE_URL",
	"LEDGER_PATH", "SOURCE_FILE",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name:     "defaults",
			setupEnv: func(t *testing.T) {},
			wantErr:  false,
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "8000" &&
					cfg.OllamaURL == "http://localhost:11434" &&
					cfg.OllamaModel == "minimax-m2.5:cloud" &&
					cfg.GenerationTimeout == 30*time.Second &&
					cfg.VectorBackend == BackendChromem &&
					cfg.CollectionName == "personal_info" &&
					cfg.ChromaPath == "./chroma_db" &&
					cfg.SourceFile == "aboutme.txt" &&
					cfg.LogLevel == slog.LevelInfo
			},
		},
		{
			name: "overrides",
			setupEnv: func(t *testing.T) {
				t.Setenv("API_PORT", "9001")
				t.Setenv("LOG_LEVEL", "debug")
				t.Setenv("LOG_FORMAT", "JSON")
				t.Setenv("GENERATION_TIMEOUT", "5s")
				t.Setenv("VECTOR_BACKEND", "Qdrant")
				t.Setenv("EMBED_DIM", "1024")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "9001" &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json" &&
					cfg.GenerationTimeout == 5*time.Second &&
					cfg.VectorBackend == BackendQdrant &&
					cfg.EmbedDim == 1024
			},
		},
		{
			name: "unknown backend",
			setupEnv: func(t *testing.T) {
				t.Setenv("VECTOR_BACKEND", "faiss")
			},
			wantErr: true,
		},
		{
			name: "pgvector without database url",
			setupEnv: func(t *testing.T) {
				t.Setenv("VECTOR_BACKEND", "pgvector")
			},
			wantErr: true,
		},
		{
			name: "pgvector with database url",
			setupEnv: func(t *testing.T) {
				t.Setenv("VECTOR_BACKEND", "pgvector")
				t.Setenv("DATABASE_URL", "postgres://localhost:5432/rag")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.DatabaseURL == "postgres://localhost:5432/rag"
			},
		},
		{
			name: "invalid EMBED_DIM",
			setupEnv: func(t *testing.T) {
				t.Setenv("EMBED_DIM", "invalid")
			},
			wantErr: true,
		},
		{
			name: "zero EMBED_DIM",
			setupEnv: func(t *testing.T) {
				t.Setenv("EMBED_DIM", "0")
			},
			wantErr: true,
		},
		{
			name: "invalid GENERATION_TIMEOUT",
			setupEnv: func(t *testing.T) {
				t.Setenv("GENERATION_TIMEOUT", "soon")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_FORMAT",
			setupEnv: func(t *testing.T) {
				t.Setenv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LEDGER_PATH", filepath.Join(t.TempDir(), "data", "ingest.db"))
			tt.setupEnv(t)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_CreatesLedgerDirectory(t *testing.T) {
	clearEnv(t)
	ledgerDir := filepath.Join(t.TempDir(), "nested", "data")
	t.Setenv("LEDGER_PATH", filepath.Join(ledgerDir, "ingest.db"))

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	info, err := os.Stat(ledgerDir)
	if err != nil {
		t.Fatalf("ledger directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s should be a directory", ledgerDir)
	}
}

func TestParse_OverridesBeforePrepare(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_PATH", filepath.Join(t.TempDir(), "data", "ingest.db"))
	t.Setenv("VECTOR_BACKEND", "pgvector")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := cfg.Prepare(); err == nil {
		t.Fatal("Prepare() expected error for pgvector without DATABASE_URL, got nil")
	}

	cfg.VectorBackend = "chromem"
	if err := cfg.Prepare(); err != nil {
		t.Fatalf("Prepare() after override error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(cfg.LedgerPath)); err != nil {
		t.Errorf("ledger directory not created: %v", err)
	}

	t.Setenv("VECTOR_BACKEND", "faiss")
	if _, err := Parse(); err != nil {
		t.Errorf("Parse() should not validate, got %v", err)
	}
}

func TestConfig_NewLogger(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		cfg := &Config{LogFormat: format, LogLevel: slog.LevelWarn}
		logger := cfg.NewLogger()
		if logger == nil {
			t.Fatalf("NewLogger(%s) returned nil", format)
		}
		if logger.Enabled(t.Context(), slog.LevelInfo) {
			t.Errorf("NewLogger(%s) should not enable info when level is warn", format)
		}
	}
}
