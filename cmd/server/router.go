package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/newsdesk/internal/api"
	apiMiddleware "github.com/phrazzld/newsdesk/internal/api/middleware"
	"github.com/phrazzld/newsdesk/internal/bootstrap"
)

// newRouter mounts every endpoint under /api.
func newRouter(app *bootstrap.App) http.Handler {
	return routes(
		api.NewPipelineHandler(app.Orchestrator, app.Logger),
		api.NewGenerationHandler(app.Client),
		api.NewHealthHandler(app.DB, app.Queue),
		app.Logger,
	)
}

func routes(
	pipeline *api.PipelineHandler,
	generation *api.GenerationHandler,
	health *api.HealthHandler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Health)

		r.Route("/cron", func(r chi.Router) {
			r.Post("/fetch-headlines", pipeline.FetchAll)
			r.Post("/fetch-headlines/{taskID}", pipeline.FetchTask)
			r.Post("/process-headlines", pipeline.ProcessHeadlines)
			r.Post("/manual-run", pipeline.ManualRun)
		})

		r.Post("/headlines/{id}/rewrite", pipeline.Rewrite)
		r.Post("/headlines/{id}/requeue", pipeline.Requeue)

		r.Get("/generation/health", generation.Health)
		r.Get("/generation/profiles", generation.Profiles)
	})

	return r
}
