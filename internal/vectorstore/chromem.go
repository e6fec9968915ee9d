package vectorstore

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/philippgille/chromem-go"

	"personal-rag/internal/contextutil"
)

// ChromemStore implements VectorStore on an embedded chromem-go database.
// Collections are persisted as gob files under the configured directory.
// A persistent store reloads the collection before reads when another
// process has changed the files, so a running API sees a separate ingest.
type ChromemStore struct {
	path  string
	name  string
	embed chromem.EmbeddingFunc

	mu         sync.RWMutex
	collection *chromem.Collection
	loaded     dirState
}

// dirState fingerprints the persisted files of a database directory.
type dirState struct {
	files  int
	size   int64
	latest time.Time
}

// NewChromemStore opens the collection, creating it if needed.
// An empty path keeps the database in memory.
func NewChromemStore(path, collection string, embed chromem.EmbeddingFunc) (*ChromemStore, error) {
	s := &ChromemStore{
		path:  path,
		name:  collection,
		embed: normalized(embed),
	}

	if path == "" {
		c, err := chromem.NewDB().GetOrCreateCollection(collection, nil, s.embed)
		if err != nil {
			return nil, fmt.Errorf("failed to get or create collection %s: %w", collection, err)
		}
		s.collection = c
		return s, nil
	}

	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload reads the database directory again and swaps in the collection.
func (s *ChromemStore) reload() error {
	state, err := readDirState(s.path)
	if err != nil {
		return err
	}

	db, err := chromem.NewPersistentDB(s.path, false)
	if err != nil {
		return fmt.Errorf("failed to open chromem database at %s: %w", s.path, err)
	}
	c, err := db.GetOrCreateCollection(s.name, nil, s.embed)
	if err != nil {
		return fmt.Errorf("failed to get or create collection %s: %w", s.name, err)
	}

	s.mu.Lock()
	s.collection = c
	s.loaded = state
	s.mu.Unlock()
	return nil
}

// current returns the collection, reloading it first if the files on disk
// no longer match what was loaded. A failed reload keeps the old collection
// and is retried on the next read.
func (s *ChromemStore) current(ctx context.Context) *chromem.Collection {
	if s.path != "" {
		state, err := readDirState(s.path)
		s.mu.RLock()
		stale := err == nil && state != s.loaded
		s.mu.RUnlock()

		if stale {
			if err := s.reload(); err != nil {
				contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to reload collection", "collection", s.name, "error", err)
			} else {
				contextutil.LoggerFromContext(ctx).DebugContext(ctx, "reloaded collection", "collection", s.name)
			}
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection
}

// readDirState walks the collection directories one level below path.
func readDirState(path string) (dirState, error) {
	var state dirState

	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("failed to read chromem directory %s: %w", path, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(path, entry.Name()))
		if err != nil {
			return state, fmt.Errorf("failed to read chromem directory %s: %w", entry.Name(), err)
		}
		for _, f := range files {
			info, err := f.Info()
			if err != nil {
				// removed between ReadDir and Info
				continue
			}
			state.files++
			state.size += info.Size()
			if info.ModTime().After(state.latest) {
				state.latest = info.ModTime()
			}
		}
	}
	return state, nil
}

// normalized wraps embed so stored vectors have unit length. chromem scores
// by dot product and only normalizes vectors passed in precomputed.
func normalized(embed chromem.EmbeddingFunc) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vec, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}
		var sum float64
		for _, v := range vec {
			sum += float64(v) * float64(v)
		}
		if sum == 0 {
			return vec, nil
		}
		norm := float32(math.Sqrt(sum))
		out := make([]float32, len(vec))
		for i, v := range vec {
			out[i] = v / norm
		}
		return out, nil
	}
}

// Name returns the collection name.
func (s *ChromemStore) Name() string {
	return s.name
}

// Upsert embeds and stores docs. chromem replaces documents with a known ID.
func (s *ChromemStore) Upsert(ctx context.Context, docs []Document) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(docs) == 0 {
		return nil
	}

	chromemDocs := make([]chromem.Document, 0, len(docs))
	for _, doc := range docs {
		chromemDocs = append(chromemDocs, chromem.Document{
			ID:       doc.ID,
			Content:  doc.Text,
			Metadata: doc.Metadata,
		})
	}

	if err := s.current(ctx).AddDocuments(ctx, chromemDocs, runtime.NumCPU()); err != nil {
		logger.ErrorContext(ctx, "failed to upsert documents", "collection", s.Name(), "count", len(docs), "error", err)
		return fmt.Errorf("failed to upsert documents: %w", err)
	}

	logger.InfoContext(ctx, "upserted documents", "collection", s.Name(), "count", len(docs))
	return nil
}

// Search queries the collection. k is clamped to the collection size
// because chromem rejects larger result counts.
func (s *ChromemStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	collection := s.current(ctx)
	count := collection.Count()
	if count == 0 {
		return []SearchResult{}, nil
	}
	if k > count {
		k = count
	}

	res, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search documents", "collection", s.Name(), "k", k, "error", err)
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	results := make([]SearchResult, 0, len(res))
	for _, r := range res {
		results = append(results, SearchResult{
			ID:       r.ID,
			Text:     r.Content,
			Metadata: r.Metadata,
			Score:    r.Similarity,
		})
	}

	logger.DebugContext(ctx, "search completed", "collection", s.Name(), "k", k, "results", len(results))
	return results, nil
}

// Delete removes documents by ID.
func (s *ChromemStore) Delete(ctx context.Context, ids []string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(ids) == 0 {
		return nil
	}

	if err := s.current(ctx).Delete(ctx, nil, nil, ids...); err != nil {
		logger.ErrorContext(ctx, "failed to delete documents", "collection", s.Name(), "count", len(ids), "error", err)
		return fmt.Errorf("failed to delete documents: %w", err)
	}

	logger.InfoContext(ctx, "deleted documents", "collection", s.Name(), "count", len(ids))
	return nil
}

// Count returns the number of documents in the collection.
func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	return s.current(ctx).Count(), nil
}

// Close is a no-op. chromem writes each document to disk as it is added.
func (s *ChromemStore) Close() error {
	return nil
}
