// Package identity define la frontera con el servicio de identidad externo:
// el core consume este contrato, nunca implementa el almacenamiento de
// credenciales ni el handshake federado.
//
// Hay dos implementaciones: Client (HTTP contra el backend real) y Stub
// (en memoria, para dev y tests).
package identity

import (
	"context"
	"errors"
	"time"
)

// Profile es el perfil que expone el backend de identidad.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Provider string `json:"provider,omitempty"` // "password" | "facebook" | ...
}

// Session es la prueba viva de autenticación que emite el backend.
// El AccessToken es un JWT HS256 cuyo sub es el identity id.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Profile      Profile   `json:"profile"`
}

// Provider es el contrato del servicio de identidad.
type Provider interface {
	// SignIn autentica email+password.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp registra una cuenta nueva y dispara el mail de confirmación.
	// No retorna sesión: el acceso no está garantizado hasta confirmar.
	SignUp(ctx context.Context, email, password, fullName string) error

	// SignInWithProvider delega el handshake federado al backend.
	SignInWithProvider(ctx context.Context, provider string) (*Session, error)

	// Refresh renueva una sesión próxima a vencer.
	Refresh(ctx context.Context, refreshToken string) (*Session, error)

	// SignOut invalida la sesión del lado del backend. Best effort: el
	// caller descarta su estado local aunque esta llamada falle.
	SignOut(ctx context.Context, accessToken string) error
}

// Errores del contrato. Los callers discriminan con errors.Is.
var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrEmailTaken         = errors.New("identity: email already registered")
	ErrProvider           = errors.New("identity: provider sign-in failed")
	ErrUnavailable        = errors.New("identity: service unavailable")
	ErrSessionInvalid     = errors.New("identity: session invalid or expired")
)
