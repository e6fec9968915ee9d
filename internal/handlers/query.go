package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"personal-rag/internal/contextutil"
	"personal-rag/internal/service"
)

const maxQueryBodyBytes = 1 << 20

// QueryHandler handles HTTP requests for knowledge base queries.
type QueryHandler struct {
	queryService service.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queryService service.QueryService) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
	}
}

// QueryRequest represents the HTTP request payload for queries.
type QueryRequest struct {
	Query string `json:"query"`
	// NResults defaults to 1 when omitted.
	NResults *int `json:"n_results,omitempty"`
}

// QueryResponse represents the HTTP response payload for queries.
type QueryResponse struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// ServeHTTP answers a question from the stored collection.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxQueryBodyBytes)

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate request
	if strings.TrimSpace(req.Query) == "" {
		logger.WarnContext(ctx, "empty query in request")
		writeError(ctx, w, http.StatusBadRequest, "Query is required")
		return
	}

	nResults := service.DefaultNResults
	if req.NResults != nil {
		nResults = *req.NResults
	}
	if nResults < 1 {
		logger.WarnContext(ctx, "invalid n_results in request", "n_results", nResults)
		writeError(ctx, w, http.StatusBadRequest, "n_results must be at least 1")
		return
	}

	// Convert HTTP request to service request
	svcResp, err := h.queryService.Query(ctx, service.QueryRequest{
		Query:    req.Query,
		NResults: nResults,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, QueryResponse{
		Query:  svcResp.Query,
		Answer: svcResp.Answer,
	})
}
