package vectorstore

import (
	"context"
	"fmt"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend     string // chromem, qdrant or pgvector
	Collection  string
	ChromaPath  string
	QdrantURL   string
	DatabaseURL string
	VectorSize  int
}

// Open returns a ready-to-use store for opts.Backend, creating the
// collection if it does not exist yet.
func Open(ctx context.Context, opts Options, embedder Embedder) (VectorStore, error) {
	switch opts.Backend {
	case "chromem", "":
		store, err := NewChromemStore(opts.ChromaPath, opts.Collection, embedder.EmbedText)
		if err != nil {
			return nil, err
		}
		return store, nil

	case "qdrant":
		store, err := NewQdrantStore(opts.QdrantURL, opts.Collection, embedder)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureCollection(ctx, opts.VectorSize); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil

	case "pgvector":
		store, err := NewPGVectorStore(ctx, opts.DatabaseURL, opts.Collection, embedder)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx, opts.VectorSize); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown vector backend %q", opts.Backend)
	}
}
