package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter wires the HTTP surface. allowedOrigins feeds the CORS policy;
// an empty list allows any origin.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middlewares
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", requestIDHeader},
		MaxAge:         300,
	}))
	r.Use(RequestLogger(h.logger, h.metrics))
	r.Use(Recovery(h.logger, h.metrics))

	// Observability APIs
	r.Get("/metrics", h.GetMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.GetHealth)

		// Model-backed APIs
		r.Post("/analyze", h.Analyze)
		r.Post("/chat", h.Chat)

		// Share APIs
		r.Post("/share", h.CreateShare)
		r.Get("/share/{id}", h.GetShare)

		r.Post("/export/excel", h.ExportCSV)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
