package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"personal-rag/internal/config"
	"personal-rag/internal/indexer"
	"personal-rag/internal/llm"
	"personal-rag/internal/storage"
	"personal-rag/internal/vectorstore"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	force, err := applyFlags(cfg, os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid arguments: %v", err)
	}
	if err := cfg.Prepare(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	slog.SetDefault(cfg.NewLogger())

	if err := run(cfg, force, os.Stdout); err != nil {
		slog.Error("Ingestion failed", "source", cfg.SourceFile, "error", err)
		os.Exit(1)
	}
}

// applyFlags overrides cfg with command line flags. Defaults come from the
// environment, so flags win over VECTOR_BACKEND and friends.
func applyFlags(cfg *config.Config, args []string) (bool, error) {
	flags := pflag.NewFlagSet("ingest", pflag.ContinueOnError)
	flags.StringVarP(&cfg.SourceFile, "source", "s", cfg.SourceFile, "file to ingest (.txt, .md, .pdf, .docx or .xlsx)")
	force := flags.BoolP("force", "f", false, "re-embed even if the source is unchanged")
	flags.StringVar(&cfg.VectorBackend, "backend", cfg.VectorBackend, "vector backend: chromem, qdrant or pgvector")
	flags.StringVar(&cfg.CollectionName, "collection", cfg.CollectionName, "collection name")

	if err := flags.Parse(args); err != nil {
		return false, err
	}
	return *force, nil
}

// run ingests cfg.SourceFile and prints a summary to out. Stores are closed
// before it returns, on success or failure.
func run(cfg *config.Config, force bool, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OllamaPullModels {
		if err := llm.NewModelLoader(cfg.OllamaURL).EnsureModels(ctx, cfg.OllamaEmbedModel); err != nil {
			return fmt.Errorf("failed to ensure Ollama models: %w", err)
		}
	}

	db, err := storage.New(cfg.LedgerPath)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	embedder := llm.NewEmbeddingsClient(cfg.OllamaURL, cfg.OllamaEmbedModel, cfg.EmbedDim)
	store, err := vectorstore.Open(ctx, vectorstore.Options{
		Backend:     cfg.VectorBackend,
		Collection:  cfg.CollectionName,
		ChromaPath:  cfg.ChromaPath,
		QdrantURL:   cfg.QdrantURL,
		DatabaseURL: cfg.DatabaseURL,
		VectorSize:  cfg.EmbedDim,
	}, embedder)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	pipeline := indexer.NewPipeline(storage.NewSourceRepo(db), storage.NewChunkRepo(db), store)
	result, err := pipeline.Ingest(ctx, cfg.SourceFile, force)
	if err != nil {
		return err
	}

	slog.Debug("Chunk token estimates",
		"min", result.Stats.Min,
		"max", result.Stats.Max,
		"mean", result.Stats.Mean,
		"p95", result.Stats.P95,
	)

	if result.Skipped {
		fmt.Fprintf(out, "%s unchanged, nothing embedded (use --force to re-embed)\n", result.Source)
	} else {
		fmt.Fprintf(out, "Successfully embedded %d chunks from %s\n", result.Chunks, result.Source)
		if result.Deleted > 0 {
			fmt.Fprintf(out, "Removed %d stale chunks\n", result.Deleted)
		}
	}
	fmt.Fprintf(out, "Collection %q now has %d documents\n", result.Collection, result.Count)
	return nil
}
