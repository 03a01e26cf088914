package middlewares

import (
	"net/http"
	"runtime/debug"

	httperrors "github.com/xenocrypt01/smile-report-dash/internal/http/errors"
	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
)

// Recover convierte panics en 500 controlados. Sin esto, un panic en un
// handler mata la conexión sin respuesta.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.From(r.Context()).Error("panic recovered",
					logger.Path(r.URL.Path),
					logger.String("panic", toString(rec)),
					logger.String("stack", string(debug.Stack())),
				)
				httperrors.WriteError(w, httperrors.ErrInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "unknown panic"
}
