package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/xenocrypt01/smile-report-dash/internal/email"
)

// Stub es un proveedor de identidad embebido, en memoria, para dev y tests.
// Passwords con bcrypt, tokens HS256 firmados con el mismo secreto que usa
// el gateway para verificar, y un hook de confirmación vía email.Sender.
type Stub struct {
	Secret     string
	TTL        time.Duration
	RefreshTTL time.Duration
	Mailer     email.Sender // nil = no manda confirmaciones
	Providers  []string     // proveedores federados habilitados

	mu       sync.Mutex
	users    map[string]*stubUser // por email
	refresh  map[string]string    // refresh token -> email
	sessions map[string]bool      // access token -> vigente (false tras SignOut)
}

type stubUser struct {
	profile   Profile
	hash      []byte
	confirmed bool
}

func NewStub(secret string, ttl time.Duration) *Stub {
	return &Stub{
		Secret:     secret,
		TTL:        ttl,
		RefreshTTL: 30 * 24 * time.Hour,
		Providers:  []string{"facebook", "google"},
		users:      make(map[string]*stubUser),
		refresh:    make(map[string]string),
		sessions:   make(map[string]bool),
	}
}

// Seed crea una cuenta ya confirmada. Para fixtures de dev/tests.
func (s *Stub) Seed(email, password, fullName string) (Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, err
	}
	p := Profile{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		FullName: fullName,
		Provider: "password",
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[p.Email] = &stubUser{profile: p, hash: hash, confirmed: true}
	return p, nil
}

func (s *Stub) issue(p Profile) (*Session, error) {
	tok, exp, err := signToken(s.Secret, p, s.TTL)
	if err != nil {
		return nil, err
	}
	rt := uuid.NewString()
	s.mu.Lock()
	s.refresh[rt] = p.Email
	s.sessions[tok] = true
	s.mu.Unlock()
	return &Session{AccessToken: tok, RefreshToken: rt, ExpiresAt: exp, Profile: p}, nil
}

func (s *Stub) SignIn(_ context.Context, emailAddr, password string) (*Session, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	s.mu.Lock()
	u, ok := s.users[emailAddr]
	s.mu.Unlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.confirmed {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u.profile)
}

func (s *Stub) SignUp(_ context.Context, emailAddr, password, fullName string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, exists := s.users[emailAddr]; exists {
		s.mu.Unlock()
		return ErrEmailTaken
	}
	p := Profile{
		ID:       uuid.NewString(),
		Email:    emailAddr,
		FullName: fullName,
		Provider: "password",
	}
	s.users[emailAddr] = &stubUser{profile: p, hash: hash, confirmed: false}
	s.mu.Unlock()

	// Mail de confirmación: el login queda bloqueado hasta Confirm.
	if s.Mailer != nil {
		subject := "Confirm your account"
		body := fmt.Sprintf("Hola %s, confirmá tu cuenta para empezar a usar el servicio.", fullName)
		if err := s.Mailer.Send(emailAddr, subject, "", body); err != nil {
			return fmt.Errorf("%w: confirmation mail: %v", ErrUnavailable, err)
		}
	}
	return nil
}

// Confirm marca la cuenta como confirmada (el equivalente a seguir el link
// del mail). Expuesto para dev/tests.
func (s *Stub) Confirm(emailAddr string) bool {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[emailAddr]
	if !ok {
		return false
	}
	u.confirmed = true
	return true
}

func (s *Stub) SignInWithProvider(_ context.Context, provider string) (*Session, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	enabled := false
	for _, p := range s.Providers {
		if p == provider {
			enabled = true
			break
		}
	}
	if !enabled {
		return nil, fmt.Errorf("%w: provider %q not configured", ErrProvider, provider)
	}

	// Identidad determinística por proveedor: suficiente para dev.
	emailAddr := provider + "-user@example.test"
	s.mu.Lock()
	u, ok := s.users[emailAddr]
	if !ok {
		u = &stubUser{
			profile: Profile{
				ID:       uuid.NewString(),
				Email:    emailAddr,
				FullName: strings.ToUpper(provider[:1]) + provider[1:] + " User",
				Provider: provider,
			},
			confirmed: true,
		}
		s.users[emailAddr] = u
	}
	s.mu.Unlock()
	return s.issue(u.profile)
}

func (s *Stub) Refresh(_ context.Context, refreshToken string) (*Session, error) {
	s.mu.Lock()
	emailAddr, ok := s.refresh[refreshToken]
	if ok {
		delete(s.refresh, refreshToken) // rotación: un refresh token se usa una vez
	}
	u := s.users[emailAddr]
	s.mu.Unlock()
	if !ok || u == nil {
		return nil, ErrSessionInvalid
	}
	return s.issue(u.profile)
}

func (s *Stub) SignOut(_ context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[accessToken]; !ok {
		return ErrSessionInvalid
	}
	s.sessions[accessToken] = false
	return nil
}
