package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"personal-rag/internal/handlers"
	"personal-rag/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QueryService service.QueryService
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// CORS runs before routing so preflight works on every path
	r.Use(CORS)

	r.Method(http.MethodGet, "/", handlers.NewInfoHandler())
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.QueryService))
	r.Method(http.MethodPost, "/query", handlers.NewQueryHandler(deps.QueryService))

	return r
}
