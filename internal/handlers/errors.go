package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"personal-rag/internal/contextutil"
	"personal-rag/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON body with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	writeJSON(ctx, w, statusCode, ErrorResponse{
		Error: message,
	})
}

// writeServiceError maps service errors to HTTP status codes and responses.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "invalid request", "error", err)
		writeError(ctx, w, http.StatusBadRequest, validationErr.Error())
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)

	var genErr *service.GenerationError
	if errors.As(err, &genErr) {
		writeError(ctx, w, http.StatusInternalServerError, "Error calling generation backend: "+genErr.Err.Error())
		return
	}

	writeError(ctx, w, http.StatusInternalServerError, "Error processing query: "+err.Error())
}
