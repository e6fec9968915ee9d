package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source_store.go -package=mocks personal-rag/internal/storage SourceStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// SourceStore defines the interface for source ledger operations.
type SourceStore interface {
	// GetByCollection returns the last ingest into collection.
	// Returns nil and ErrNotFound if the collection was never ingested.
	GetByCollection(ctx context.Context, collection string) (*SourceRecord, error)
	// Upsert records an ingest, replacing the previous one for the collection.
	Upsert(ctx context.Context, source *SourceRecord) error
}

// SourceRepo provides methods for source operations.
// It implements the SourceStore interface.
type SourceRepo struct {
	db *sql.DB
}

// NewSourceRepo creates a new SourceRepo.
func NewSourceRepo(db *sql.DB) *SourceRepo {
	return &SourceRepo{db: db}
}

// GetByCollection returns the last ingest into collection.
func (r *SourceRepo) GetByCollection(ctx context.Context, collection string) (*SourceRecord, error) {
	var source SourceRecord
	var ingestedAt string

	err := r.db.QueryRowContext(ctx,
		"SELECT collection, path, name, hash, chunk_count, ingested_at FROM sources WHERE collection = ?",
		collection,
	).Scan(&source.Collection, &source.Path, &source.Name, &source.Hash, &source.ChunkCount, &ingestedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query source: %w", err)
	}

	source.IngestedAt, err = time.Parse(time.RFC3339Nano, ingestedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ingested_at timestamp: %w", err)
	}

	return &source, nil
}

// Upsert records an ingest. A zero IngestedAt is set to the current time.
func (r *SourceRepo) Upsert(ctx context.Context, source *SourceRecord) error {
	if source.IngestedAt.IsZero() {
		source.IngestedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sources (collection, path, name, hash, chunk_count, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection) DO UPDATE SET
			path = excluded.path,
			name = excluded.name,
			hash = excluded.hash,
			chunk_count = excluded.chunk_count,
			ingested_at = excluded.ingested_at`,
		source.Collection, source.Path, source.Name, source.Hash, source.ChunkCount,
		source.IngestedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}
	return nil
}
