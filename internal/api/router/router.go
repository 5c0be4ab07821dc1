package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/homemedreview/hmr-platform/internal/http/handlers"
	httpmiddleware "github.com/homemedreview/hmr-platform/internal/http/middleware"
	"github.com/homemedreview/hmr-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Health             *handlers.HealthHandler
	Documents          *handlers.DocumentsHandler
	Templates          *handlers.TemplatesHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.Health.Check)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/documents", func(r chi.Router) {
			r.Post("/extract", cfg.Documents.Extract)
		})
		api.Route("/templates", func(r chi.Router) {
			r.Post("/fields", cfg.Templates.DiscoverFields)
			r.Post("/fill", cfg.Templates.Fill)
		})
	})

	return r
}
