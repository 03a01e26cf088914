// Package router arma el árbol de rutas de la API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xenocrypt01/smile-report-dash/internal/http/controllers"
	httperrors "github.com/xenocrypt01/smile-report-dash/internal/http/errors"
	mw "github.com/xenocrypt01/smile-report-dash/internal/http/middlewares"
)

// Deps contiene todo lo que el router necesita.
type Deps struct {
	Controllers *controllers.Controllers

	// JWTSecret verifica los tokens en rutas protegidas.
	JWTSecret string

	// CORSAllowedOrigins restringe orígenes; vacío = cualquiera (dev).
	CORSAllowedOrigins []string
}

// New construye el handler raíz con middlewares y rutas registradas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Recover)
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.CORS(deps.CORSAllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// Observabilidad: sin auth, pensado para scrapers y probes internos.
	r.Get("/healthz", deps.Controllers.Health.Healthz)
	r.Get("/readyz", deps.Controllers.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.Controllers.Auth.Login)
			r.Post("/register", deps.Controllers.Auth.Register)
			r.Post("/social", deps.Controllers.Auth.Social)
			r.Post("/refresh", deps.Controllers.Auth.Refresh)
			r.Post("/logout", deps.Controllers.Auth.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession(deps.JWTSecret))
			r.Post("/reports", deps.Controllers.Reports.Submit)
		})
	})

	return r
}
