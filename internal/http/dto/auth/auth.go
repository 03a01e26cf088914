// Package auth contiene los DTOs de las rutas de autenticación.
package auth

import (
	"time"

	"github.com/xenocrypt01/smile-report-dash/internal/identity"
)

// LoginRequest es el body de POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest es el body de POST /v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// SocialRequest es el body de POST /v1/auth/social.
type SocialRequest struct {
	Provider string `json:"provider"`
}

// RefreshRequest es el body de POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionResponse es la sesión que emiten login, social y refresh.
type SessionResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time        `json:"expires_at"`
	Profile      identity.Profile `json:"profile"`
}

// FromSession arma la respuesta a partir de la sesión del proveedor.
func FromSession(s *identity.Session) *SessionResponse {
	return &SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		Profile:      s.Profile,
	}
}

// RegisterResponse es la respuesta de POST /v1/auth/register.
type RegisterResponse struct {
	Status string `json:"status"` // "pending_confirmation"
}
