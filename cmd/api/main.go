package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personal-rag/internal/config"
	"personal-rag/internal/http"
	"personal-rag/internal/llm"
	"personal-rag/internal/service"
	"personal-rag/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OllamaPullModels {
		loader := llm.NewModelLoader(cfg.OllamaURL)
		if err := loader.EnsureModels(ctx, cfg.OllamaModel, cfg.OllamaEmbedModel); err != nil {
			log.Fatalf("Failed to ensure Ollama models: %v", err)
		}
	}

	// The query text is embedded with the same model used at ingest time
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
		log.Fatalf("Failed to open vector store: %v", err)
	}
	defer func() {
		_ = store.Close()
	}()

	count, err := store.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to read collection: %v", err)
	}
	slog.Info("Collection ready", "backend", cfg.VectorBackend, "collection", store.Name(), "count", count)
	if count == 0 {
		slog.Warn("Collection is empty, run the ingest command first", "collection", store.Name())
	}

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.GenerationTimeout)
	queryService := service.NewQueryService(store, llmClient, cfg.GenerationTimeout)

	router := http.NewRouter(&http.Deps{
		QueryService: queryService,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Generation may take the whole timeout before the response is written
		WriteTimeout: cfg.GenerationTimeout + 10*time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", server.Addr)
	slog.Debug("LLM configuration", "base_url", cfg.OllamaURL, "model", cfg.OllamaModel, "timeout", cfg.GenerationTimeout)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
}
