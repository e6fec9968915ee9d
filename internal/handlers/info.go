package handlers

import (
	"net/http"
)

// InfoResponse describes the API.
type InfoResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// InfoHandler serves the static API description at the root path.
type InfoHandler struct{}

// NewInfoHandler creates a new InfoHandler.
func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

func (h *InfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, InfoResponse{
		Message: "RAG Application API",
		Endpoints: map[string]string{
			"/query":  "POST - Query the knowledge base",
			"/health": "GET - Collection health and document count",
		},
	})
}
