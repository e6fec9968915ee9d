package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks personal-rag/internal/vectorstore VectorStore,Embedder

import "context"

// Document is a chunk of text stored under a stable ID.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// SearchResult is a stored document returned by a similarity search.
// Score is the backend's similarity, higher is closer.
type SearchResult struct {
	ID       string
	Text     string
	Metadata map[string]string
	Score    float32
}

// VectorStore is a named collection of embedded documents.
// Implementations embed text themselves, so callers only deal in strings.
type VectorStore interface {
	// Name returns the collection name.
	Name() string

	// Upsert inserts documents, replacing any existing document with the same ID.
	Upsert(ctx context.Context, docs []Document) error

	// Search returns up to k documents ordered by descending similarity to query.
	// An empty collection yields an empty slice.
	Search(ctx context.Context, query string, k int) ([]SearchResult, error)

	// Delete removes documents by ID. Unknown IDs are ignored.
	Delete(ctx context.Context, ids []string) error

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases connections held by the store.
	Close() error
}

// Embedder turns text into vectors.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
