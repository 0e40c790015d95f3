package rest

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/zinote-backend/internal/transport/middleware"
)

// RouterDeps holds the handlers and middleware mounted by NewRouter.
type RouterDeps struct {
	Health   *HealthHandler
	Session  *SessionHandler
	Records  *RecordHandler
	Impex    *ImpexHandler
	Validate middleware.Middleware
	Limit    middleware.Middleware
	CORS     middleware.Middleware
	Logger   *slog.Logger
}

// NewRouter builds the HTTP routing tree. Health probes sit outside the
// rate limiter and auth; everything under /api/v1 goes through both.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.Recovery(deps.Logger),
		deps.CORS,
	))

	r.Get("/health", deps.Health.Health)
	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Chain(deps.Limit, deps.Validate))

		r.Post("/auth/guest", deps.Session.Guest)
		r.Get("/auth/me", deps.Session.Me)

		r.Route("/collections/{collection}", func(r chi.Router) {
			r.Get("/records", deps.Records.List)
			r.Get("/records/search", deps.Records.Search)
			r.Get("/records/suggest", deps.Records.Suggest)
			r.Get("/records/{id}", deps.Records.Get)
			r.Get("/export", deps.Impex.Export)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor)

				r.Post("/records", deps.Records.Create)
				r.Post("/records/batch", deps.Records.BatchCreate)
				r.Put("/records/{id}", deps.Records.Update)
				r.Delete("/records/{id}", deps.Records.Delete)
				r.Post("/invalidate", deps.Records.Invalidate)
				r.Post("/import", deps.Impex.Import)
			})
		})
	})

	return r
}
