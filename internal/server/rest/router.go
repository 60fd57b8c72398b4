// Package rest is the HTTP cookie surface of the session core.
package rest

import (
	"net/http"

	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// globalMiddleware is applied to every route. Recovery sits innermost so a
// recovered panic is still logged and counted as a 500.
func globalMiddleware(logger logging.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		RequestLogging(logger),
		PrometheusMetrics,
		Recovery(logger),
	}
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(svc AuthService, jar *CookieJar, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(globalMiddleware(logger)...)

	r.Get("/health", Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h := NewAuthHandler(svc, jar, logger)
	requireAuth := RequireAuth(svc, jar)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Post("/signout", h.SignOut)

		r.With(requireAuth).Get("/me", h.Me)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(RequireRole(models.RoleAdmin))

		r.Get("/ping", AdminPing)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})

	return r
}
