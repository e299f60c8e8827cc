package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EdgePrefix is the path namespace served by the edge itself. Everything
// else is proxied to the upstream.
const EdgePrefix = "/_edge"

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	if h.rateLimitRPS > 0 {
		router.Use(httprate.LimitByIP(h.rateLimitRPS, time.Second))
	}

	router.Route(EdgePrefix, func(r chi.Router) {
		r.Use(withGZip)
		r.Get("/healthz", h.health)
		r.Get("/version", h.version)
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	})

	// everything outside the edge namespace goes upstream
	router.Handle("/*", withRestoredGZip(h.proxy))

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
