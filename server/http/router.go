package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"estimate-service/internal/config"
	estHnd "estimate-service/internal/estimate/handler"
	"estimate-service/internal/middleware"
	"estimate-service/internal/pricedb"
	"estimate-service/internal/session"
	"estimate-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, sessions *session.Registry, prices *pricedb.Store) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	h := estHnd.New(cfg, logger, sessions, prices)
	r.Route("/estimate", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Post("/upload", h.Upload)
			r.Post("/reassign", h.Reassign)
			r.Post("/merge", h.Merge)
			r.Put("/prices", h.Prices)
			r.Get("/export", h.Export)
		})
	})

	return r
}
