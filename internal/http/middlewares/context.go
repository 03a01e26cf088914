package middlewares

import "context"

type ctxKey string

const (
	// ctxIdentityIDKey guarda el identity id extraído del token verificado
	ctxIdentityIDKey ctxKey = "identity_id"
	// ctxEmailKey guarda el email del token verificado
	ctxEmailKey ctxKey = "email"
	// ctxRequestIDKey guarda el request id
	ctxRequestIDKey ctxKey = "request_id"
)

// WithIdentityID inyecta el identity id en el contexto.
func WithIdentityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxIdentityIDKey, id)
}

// GetIdentityID obtiene el identity id del contexto.
// Retorna "" si RequireSession no se aplicó en la ruta.
func GetIdentityID(ctx context.Context) string {
	if v := ctx.Value(ctxIdentityIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithEmail inyecta el email de la sesión en el contexto.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxEmailKey, email)
}

// GetEmail obtiene el email de la sesión, o "".
func GetEmail(ctx context.Context) string {
	if v := ctx.Value(ctxEmailKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func setRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, id)
}

// GetRequestID obtiene el request id del contexto, o "".
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
