package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks personal-rag/internal/service Generator
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_query_service.go -package=mocks -mock_names=QueryService=MockQueryService personal-rag/internal/service QueryService

import (
	"context"
	"strings"
	"time"

	"personal-rag/internal/contextutil"
	"personal-rag/internal/rag"
	"personal-rag/internal/vectorstore"
)

// DefaultNResults is the number of chunks retrieved when a request does not
// say otherwise.
const DefaultNResults = 1

// Generator produces an answer for a prompt.
// This interface is defined from the service layer's perspective (consumer-first).
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QueryRequest represents a question in the domain layer.
type QueryRequest struct {
	Query    string
	NResults int
}

// QueryResponse represents an answer in the domain layer.
type QueryResponse struct {
	Query  string
	Answer string
}

// HealthStatus reports the collection the service reads from.
type HealthStatus struct {
	Collection string
	Count      int
}

// QueryService answers questions from the stored collection.
type QueryService interface {
	// Query retrieves up to NResults chunks and asks the model to answer from them.
	Query(ctx context.Context, req QueryRequest) (QueryResponse, error)
	// Health returns the collection name and document count.
	Health(ctx context.Context) (HealthStatus, error)
}

// queryService implements QueryService.
type queryService struct {
	store     vectorstore.VectorStore
	generator Generator
	timeout   time.Duration
}

// NewQueryService creates a new QueryService. A positive timeout bounds each
// generation call.
func NewQueryService(store vectorstore.VectorStore, generator Generator, timeout time.Duration) QueryService {
	return &queryService{
		store:     store,
		generator: generator,
		timeout:   timeout,
	}
}

// Query processes a question.
func (s *queryService) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if strings.TrimSpace(req.Query) == "" {
		logger.WarnContext(ctx, "empty query in request")
		return QueryResponse{}, &ValidationError{
			Field:   "query",
			Message: "cannot be empty",
		}
	}
	if req.NResults < 1 {
		logger.WarnContext(ctx, "invalid n_results in request", "n_results", req.NResults)
		return QueryResponse{}, &ValidationError{
			Field:   "n_results",
			Message: "must be at least 1",
		}
	}

	results, err := s.store.Search(ctx, req.Query, req.NResults)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search collection", "error", err)
		return QueryResponse{}, WrapError(err, "failed to search collection")
	}

	if len(results) == 0 {
		logger.InfoContext(ctx, "no relevant chunks found", "collection", s.store.Name())
		return QueryResponse{
			Query:  req.Query,
			Answer: rag.FallbackAnswer,
		}, nil
	}

	texts := make([]string, len(results))
	for i, result := range results {
		texts[i] = result.Text
		logger.DebugContext(ctx, "retrieved chunk", "rank", i+1, "id", result.ID, "score", result.Score)
	}
	prompt := rag.BuildPrompt(texts, req.Query)

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	answer, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return QueryResponse{}, &GenerationError{Err: err}
	}

	logger.InfoContext(ctx, "query processed successfully",
		"query_length", len(req.Query),
		"chunks_used", len(results),
		"answer_length", len(answer),
	)
	return QueryResponse{
		Query:  req.Query,
		Answer: answer,
	}, nil
}

// Health counts the documents in the collection.
func (s *queryService) Health(ctx context.Context) (HealthStatus, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return HealthStatus{}, WrapError(err, "failed to count collection")
	}
	return HealthStatus{
		Collection: s.store.Name(),
		Count:      count,
	}, nil
}
