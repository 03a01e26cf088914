package middlewares

import (
	"net/http"
	"strings"

	httperrors "github.com/xenocrypt01/smile-report-dash/internal/http/errors"
	"github.com/xenocrypt01/smile-report-dash/internal/identity"
	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
)

// RequireSession exige un Bearer token válido y deriva la identidad del
// claim sub del token verificado. El payload del cliente NUNCA es fuente
// de identidad: un caller no puede reportar en nombre de otra cuenta.
func RequireSession(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}

			claims, err := identity.VerifyToken(jwtSecret, raw)
			if err != nil {
				logger.From(r.Context()).Debug("token verification failed", logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrSessionInvalid)
				return
			}

			ctx := WithIdentityID(r.Context(), claims.IdentityID)
			if claims.Email != "" {
				ctx = WithEmail(ctx, claims.Email)
			}
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.IdentityID(claims.IdentityID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
