package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Compass/internal/engine"
	"github.com/MikeSquared-Agency/Compass/internal/events"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

func NewRouter(s store.Store, ev events.Client, e *engine.Engine, scorer *scoring.Scorer, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	analyses := NewAnalysesHandler(s, ev)
	items := NewItemsHandler(s, ev)
	score := NewScoreHandler(s, scorer)
	admin := NewAdminHandler(s, e)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AnalystIDMiddleware)

		r.Post("/analyses", analyses.Create)
		r.Get("/analyses", analyses.List)
		r.Get("/analyses/{id}", analyses.Get)
		r.Patch("/analyses/{id}", analyses.Update)
		r.Delete("/analyses/{id}", analyses.Delete)
		r.Get("/analyses/{id}/events", analyses.Events)

		r.Post("/analyses/{id}/items", items.Create)
		r.Get("/analyses/{id}/items", items.List)
		r.Patch("/analyses/{id}/items/{item_id}", items.Update)
		r.Delete("/analyses/{id}/items/{item_id}", items.Delete)

		r.Get("/analyses/{id}/recommendation", score.Recommend)
		r.Get("/analyses/{id}/report", score.Report)
		r.Post("/score", score.Evaluate)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
			r.Post("/analyses/{id}/rescore", admin.Rescore)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
