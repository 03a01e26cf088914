package middlewares

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
)

// RequestID asigna un id único a cada request (o respeta el que venga en
// X-Request-Id), lo inyecta en el contexto junto con un logger enriquecido
// y lo devuelve en la respuesta.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}

		ctx := setRequestID(r.Context(), id)
		ctx = logger.ToContext(ctx, logger.With(logger.RequestID(id)))

		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
