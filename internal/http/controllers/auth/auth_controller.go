// Package auth contiene los controllers de autenticación.
package auth

import (
	"errors"
	"net/http"
	"strings"

	dto "github.com/xenocrypt01/smile-report-dash/internal/http/dto/auth"
	httperrors "github.com/xenocrypt01/smile-report-dash/internal/http/errors"
	"github.com/xenocrypt01/smile-report-dash/internal/http/helpers"
	svc "github.com/xenocrypt01/smile-report-dash/internal/http/services/auth"
	"github.com/xenocrypt01/smile-report-dash/internal/identity"
	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
)

// Controller maneja las rutas de autenticación.
type Controller struct {
	service svc.Service
}

// NewController crea el controller de autenticación.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Login maneja POST /v1/auth/login.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var in dto.LoginRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	sess, err := c.service.Login(r.Context(), in)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, sess)
}

// Register maneja POST /v1/auth/register.
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	var in dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	if err := c.service.Register(r.Context(), in); err != nil {
		writeAuthError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{Status: "pending_confirmation"})
}

// Social maneja POST /v1/auth/social.
func (c *Controller) Social(w http.ResponseWriter, r *http.Request) {
	var in dto.SocialRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	sess, err := c.service.Social(r.Context(), in)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, sess)
}

// Refresh maneja POST /v1/auth/refresh.
func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	var in dto.RefreshRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	sess, err := c.service.Refresh(r.Context(), in)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, sess)
}

// Logout maneja POST /v1/auth/logout. La invalidación remota es best
// effort: siempre responde 204 para que el cliente pueda descartar su
// estado local sin condiciones.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	raw := bearer(r)
	if raw != "" {
		if err := c.service.Logout(r.Context(), raw); err != nil {
			logger.From(r.Context()).Warn("remote logout failed", logger.Err(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// writeAuthError traduce los sentinels del proveedor de identidad al
// catálogo de errores de la API.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	case errors.Is(err, identity.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrEmailTaken)
	case errors.Is(err, identity.ErrProvider):
		httperrors.WriteError(w, httperrors.ErrProviderSignIn)
	case errors.Is(err, identity.ErrSessionInvalid):
		httperrors.WriteError(w, httperrors.ErrSessionInvalid)
	case errors.Is(err, identity.ErrUnavailable):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
	default:
		logger.From(r.Context()).Error("unexpected auth error", logger.Err(err))
		httperrors.WriteError(w, err)
	}
}
