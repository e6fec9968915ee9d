package indexer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"path/filepath"

	"personal-rag/internal/contextutil"
	"personal-rag/internal/storage"
	"personal-rag/internal/vectorstore"
)

// Pipeline ingests a source file into a vector collection and records the
// run in the SQLite ledger.
type Pipeline struct {
	sources     storage.SourceStore
	chunks      storage.ChunkStore
	vectorStore vectorstore.VectorStore
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	sources storage.SourceStore,
	chunks storage.ChunkStore,
	vectorStore vectorstore.VectorStore,
) *Pipeline {
	return &Pipeline{
		sources:     sources,
		chunks:      chunks,
		vectorStore: vectorStore,
	}
}

// Ingest reads path, splits it into line chunks and upserts them by ID.
// Chunks left over from a longer previous version are deleted. When the
// content hash matches the last run and the collection still holds that
// many documents, nothing is written unless force is set.
func (p *Pipeline) Ingest(ctx context.Context, path string, force bool) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	collection := p.vectorStore.Name()

	content, err := ReadSource(path)
	if err != nil {
		return nil, err
	}

	hashHex := fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
	chunks := BuildChunks(SplitLines(content), path)

	result := &Result{
		Collection: collection,
		Source:     filepath.Base(path),
		Stats:      computeChunkStats(chunks),
	}

	existing, err := p.sources.GetByCollection(ctx, collection)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing source: %w", err)
	}

	if !force && existing != nil && existing.Hash == hashHex && existing.ChunkCount == len(chunks) {
		count, err := p.vectorStore.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count collection: %w", err)
		}
		if count == len(chunks) {
			logger.InfoContext(ctx, "skipping unchanged source", "path", path, "hash", hashHex, "chunks", len(chunks))
			result.Count = count
			result.Skipped = true
			return result, nil
		}
	}

	// IDs recorded by the previous run that this run will not overwrite
	var stale []string
	if existing != nil {
		oldIDs, err := p.chunks.ListIDs(ctx, collection)
		if err != nil {
			return nil, fmt.Errorf("failed to list old chunk IDs: %w", err)
		}
		keep := make(map[string]struct{}, len(chunks))
		for _, chunk := range chunks {
			keep[chunk.ID] = struct{}{}
		}
		for _, id := range oldIDs {
			if _, ok := keep[id]; !ok {
				stale = append(stale, id)
			}
		}
	}

	if len(stale) > 0 {
		if err := p.vectorStore.Delete(ctx, stale); err != nil {
			return nil, fmt.Errorf("failed to delete stale chunks: %w", err)
		}
		result.Deleted = len(stale)
	}

	if len(chunks) > 0 {
		docs := make([]vectorstore.Document, len(chunks))
		for i, chunk := range chunks {
			docs[i] = vectorstore.Document{
				ID:       chunk.ID,
				Text:     chunk.Text,
				Metadata: chunk.Metadata(),
			}
		}
		if err := p.vectorStore.Upsert(ctx, docs); err != nil {
			return nil, fmt.Errorf("failed to upsert chunks: %w", err)
		}
	} else {
		logger.WarnContext(ctx, "no chunks generated", "path", path)
	}
	result.Chunks = len(chunks)

	source := &storage.SourceRecord{
		Collection: collection,
		Path:       path,
		Name:       result.Source,
		Hash:       hashHex,
		ChunkCount: len(chunks),
	}
	if err := p.sources.Upsert(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to record source: %w", err)
	}

	records := make([]storage.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = storage.ChunkRecord{ID: chunk.ID, ChunkIndex: chunk.Index, Text: chunk.Text}
	}
	if err := p.chunks.ReplaceForCollection(ctx, collection, records); err != nil {
		return nil, fmt.Errorf("failed to record chunks: %w", err)
	}

	count, err := p.vectorStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count collection: %w", err)
	}
	result.Count = count

	logger.InfoContext(ctx, "ingested source",
		"path", path,
		"collection", collection,
		"chunks", result.Chunks,
		"deleted", result.Deleted,
		"count", result.Count,
	)
	return result, nil
}
