// Package http exposes the read-only inspection API of the pipeline.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/interfaces/http/handlers"
	"github.com/turtacn/molgraph/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil members are skipped.
type RouterConfig struct {
	// Handlers
	SubsetHandler *handlers.SubsetHandler
	HealthHandler *handlers.HealthHandler

	// Infrastructure
	Logger         logging.Logger
	Logging        middleware.LoggingConfig
	Observer       middleware.HTTPObserver
	MetricsHandler http.Handler
}

// NewRouter constructs the HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	}
	if cfg.Observer != nil {
		r.Use(middleware.Metrics(cfg.Observer))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerSubsetRoutes(api, cfg.SubsetHandler)
	})
	return r
}

// registerSubsetRoutes mounts the corpus and subset endpoints.
func registerSubsetRoutes(r chi.Router, h *handlers.SubsetHandler) {
	if h == nil {
		return
	}
	r.Get("/corpus", h.Corpus)
	r.Route("/subsets", func(sr chi.Router) {
		sr.Get("/", h.List)
		sr.Route("/{split}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Get("/items/{index}", h.Item)
			item.Get("/batches/{n}", h.Batch)
		})
	})
}

//Personal.AI order the ending
