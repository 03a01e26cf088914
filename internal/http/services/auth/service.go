// Package auth implementa el service de autenticación: normaliza input,
// delega en el proveedor de identidad y retorna errores sentinel que el
// controller traduce a AppError.
package auth

import (
	"context"
	"strings"

	dto "github.com/xenocrypt01/smile-report-dash/internal/http/dto/auth"
	"github.com/xenocrypt01/smile-report-dash/internal/identity"
	"github.com/xenocrypt01/smile-report-dash/internal/metrics"
	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
)

// Service es el contrato del service de autenticación.
type Service interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.SessionResponse, error)
	Register(ctx context.Context, in dto.RegisterRequest) error
	Social(ctx context.Context, in dto.SocialRequest) (*dto.SessionResponse, error)
	Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.SessionResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

// Deps contiene las dependencias del service.
type Deps struct {
	Provider identity.Provider
}

type service struct {
	deps Deps
}

// NewService crea el service de autenticación.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) Login(ctx context.Context, in dto.LoginRequest) (*dto.SessionResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Login"),
	)

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		metrics.AuthAttempts.WithLabelValues("login", "rejected").Inc()
		return nil, identity.ErrInvalidCredentials
	}

	sess, err := s.deps.Provider.SignIn(ctx, email, in.Password)
	if err != nil {
		log.Debug("sign-in failed", logger.Err(err))
		metrics.AuthAttempts.WithLabelValues("login", "failed").Inc()
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("login", "ok").Inc()
	log.Info("sign-in ok", logger.IdentityID(sess.Profile.ID))
	return dto.FromSession(sess), nil
}

func (s *service) Register(ctx context.Context, in dto.RegisterRequest) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Register"),
	)

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		metrics.AuthAttempts.WithLabelValues("register", "rejected").Inc()
		return identity.ErrInvalidCredentials
	}

	if err := s.deps.Provider.SignUp(ctx, email, in.Password, strings.TrimSpace(in.FullName)); err != nil {
		log.Debug("sign-up failed", logger.Err(err))
		metrics.AuthAttempts.WithLabelValues("register", "failed").Inc()
		return err
	}

	metrics.AuthAttempts.WithLabelValues("register", "ok").Inc()
	return nil
}

func (s *service) Social(ctx context.Context, in dto.SocialRequest) (*dto.SessionResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Social"),
		logger.Provider(in.Provider),
	)

	provider := strings.TrimSpace(strings.ToLower(in.Provider))
	if provider == "" {
		metrics.AuthAttempts.WithLabelValues("social", "rejected").Inc()
		return nil, identity.ErrProvider
	}

	sess, err := s.deps.Provider.SignInWithProvider(ctx, provider)
	if err != nil {
		log.Debug("provider sign-in failed", logger.Err(err))
		metrics.AuthAttempts.WithLabelValues("social", "failed").Inc()
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("social", "ok").Inc()
	log.Info("provider sign-in ok", logger.IdentityID(sess.Profile.ID))
	return dto.FromSession(sess), nil
}

func (s *service) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.SessionResponse, error) {
	if strings.TrimSpace(in.RefreshToken) == "" {
		return nil, identity.ErrSessionInvalid
	}
	sess, err := s.deps.Provider.Refresh(ctx, in.RefreshToken)
	if err != nil {
		return nil, err
	}
	return dto.FromSession(sess), nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	// Best effort: el cliente descarta su sesión local pase lo que pase.
	return s.deps.Provider.SignOut(ctx, accessToken)
}
