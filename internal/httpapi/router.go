// Package httpapi assembles the mint API router.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"minter/internal/httpapi/handlers"
	"minter/internal/httpkit"
	"minter/internal/observability/metrics"
	"minter/internal/pkg/logger"
	"minter/internal/pkg/middleware"
	"minter/internal/worker/queue"
)

type Deps struct {
	Teams          handlers.TeamReader
	Queue          queue.Enqueuer
	Checks         map[string]handlers.Pinger
	Log            *logger.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.New(logger.Config{})
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics)
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAgeSeconds:  600,
	}))

	h := handlers.New(handlers.Deps{
		Teams:  d.Teams,
		Queue:  d.Queue,
		Checks: d.Checks,
		Log:    log,
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Post("/mints", middleware.WrapHandler(log, h.PostMint))
	r.Get("/teams/{teamId}", middleware.WrapHandler(log, h.GetTeam))

	return r
}
