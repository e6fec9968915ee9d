package vectorstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"personal-rag/internal/contextutil"
)

// PGVectorStore implements VectorStore on PostgreSQL with the pgvector extension.
// Each collection is a table named "<collection>_chunks".
type PGVectorStore struct {
	pool       *pgxpool.Pool
	collection string
	table      string // quoted identifier
	embedder   Embedder
}

// NewPGVectorStore connects to databaseURL. Call Migrate before use.
func NewPGVectorStore(ctx context.Context, databaseURL, collection string, embedder Embedder) (*PGVectorStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PGVectorStore{
		pool:       pool,
		collection: collection,
		table:      tableName(collection),
		embedder:   embedder,
	}, nil
}

func tableName(collection string) string {
	return pgx.Identifier{collection + "_chunks"}.Sanitize()
}

// Migrate creates the extension and the collection table.
func (s *PGVectorStore) Migrate(ctx context.Context, dim int) error {
	q := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS %s (
  id         TEXT PRIMARY KEY,
  text       TEXT NOT NULL,
  metadata   JSONB NOT NULL DEFAULT '{}'::jsonb,
  embedding  vector(%d) NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
);
`, s.table, dim)

	if _, err := s.pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", s.table, err)
	}
	return nil
}

// Name returns the collection name.
func (s *PGVectorStore) Name() string {
	return s.collection
}

// Upsert embeds docs and writes them in one batch.
func (s *PGVectorStore) Upsert(ctx context.Context, docs []Document) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	q := fmt.Sprintf(`
INSERT INTO %s (id, text, metadata, embedding)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
  text      = EXCLUDED.text,
  metadata  = EXCLUDED.metadata,
  embedding = EXCLUDED.embedding;`, s.table)

	batch := &pgx.Batch{}
	for i, doc := range docs {
		meta := doc.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		batch.Queue(q, doc.ID, doc.Text, meta, pgvector.NewVector(vectors[i]))
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		logger.ErrorContext(ctx, "failed to upsert rows", "collection", s.collection, "count", len(docs), "error", err)
		return fmt.Errorf("failed to upsert rows: %w", err)
	}

	logger.InfoContext(ctx, "upserted rows", "collection", s.collection, "count", len(docs))
	return nil
}

// Search ranks rows by cosine similarity to the embedded query.
func (s *PGVectorStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	vec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	q := fmt.Sprintf(`
SELECT id, text, metadata, 1 - (embedding <=> $1) AS score
FROM %s
ORDER BY embedding <=> $1
LIMIT $2;`, s.table)

	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(vec), k)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search rows", "collection", s.collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search rows: %w", err)
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		var score float64
		if err := rows.Scan(&r.ID, &r.Text, &r.Metadata, &score); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.Score = float32(score)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	logger.DebugContext(ctx, "search completed", "collection", s.collection, "k", k, "results", len(results))
	return results, nil
}

// Delete removes rows by ID.
func (s *PGVectorStore) Delete(ctx context.Context, ids []string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(ids) == 0 {
		return nil
	}

	q := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, s.table)
	tag, err := s.pool.Exec(ctx, q, ids)
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete rows", "collection", s.collection, "count", len(ids), "error", err)
		return fmt.Errorf("failed to delete rows: %w", err)
	}

	logger.InfoContext(ctx, "deleted rows", "collection", s.collection, "count", tag.RowsAffected())
	return nil
}

// Count returns the number of rows in the collection table.
func (s *PGVectorStore) Count(ctx context.Context) (int, error) {
	var n int
	q := fmt.Sprintf(`SELECT count(*) FROM %s`, s.table)
	if err := s.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

// Close closes the connection pool.
func (s *PGVectorStore) Close() error {
	s.pool.Close()
	return nil
}
