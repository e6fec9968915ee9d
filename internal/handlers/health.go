package handlers

import (
	"net/http"

	"personal-rag/internal/contextutil"
	"personal-rag/internal/service"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	queryService service.QueryService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(queryService service.QueryService) *HealthHandler {
	return &HealthHandler{
		queryService: queryService,
	}
}

// HealthResponse represents the health check response. The field names
// are kept for clients of the earlier Chroma-backed service.
type HealthResponse struct {
	Status     string `json:"status"`
	Collection string `json:"chromadb_collection"`
	Count      int    `json:"chromadb_count"`
}

// ServeHTTP reports the collection name and how many chunks it holds.
// A store failure yields 500.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	status, err := h.queryService.Health(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "health check failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(ctx, w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Collection: status.Collection,
		Count:      status.Count,
	})
}
