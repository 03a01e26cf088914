// Package session implementa el Session Manager del lado cliente: envuelve
// al proveedor de identidad, es dueño único del estado de sesión y lo expone
// como una máquina de estados observable.
//
// Estados: Loading → {Authenticated, Unauthenticated};
// Unauthenticated → Authenticated (sign-in/up/provider);
// Authenticated → Unauthenticated (sign-out o refresh fallido).
// Ninguna otra transición está permitida.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/xenocrypt01/smile-report-dash/internal/cache"
	"github.com/xenocrypt01/smile-report-dash/internal/identity"
	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
)

// State es el estado visible de la sesión.
type State int

const (
	// StateLoading: el restore inicial todavía no resolvió. Los consumers
	// tienen que tratarlo como "no sé todavía", no como no-autenticado,
	// para no flashear una vista sin sesión.
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot es la vista inmutable que reciben los suscriptores. Session solo
// es válida cuando State es StateAuthenticated.
type Snapshot struct {
	State   State
	Session identity.Session
}

// Subscriber recibe cada transición de forma síncrona, en orden de registro.
type Subscriber func(Snapshot)

// clave bajo la que se persiste el token en el KV del cliente
const storeKey = "session"

// refreshSkew: cuánto antes del expiry renovamos el token.
const refreshSkew = 30 * time.Second

// Manager es el dueño exclusivo de la sesión. Todos los demás componentes
// solo leen snapshots.
type Manager struct {
	provider identity.Provider
	store    cache.Client

	// opMu serializa las operaciones de auth: a lo sumo una llamada de red
	// en vuelo, que es el "busy flag" del contrato.
	opMu sync.Mutex

	mu      sync.Mutex
	state   State
	current identity.Session
	subs    []Subscriber
}

// New crea un Manager en estado Loading. El caller debe invocar Restore
// para resolver el estado inicial.
func New(provider identity.Provider, store cache.Client) *Manager {
	return &Manager{
		provider: provider,
		store:    store,
		state:    StateLoading,
	}
}

// Subscribe registra un suscriptor y le entrega el estado actual de forma
// síncrona, así un suscriptor tardío también arranca viendo Loading (o el
// estado ya resuelto) antes de cualquier transición futura.
func (m *Manager) Subscribe(fn Subscriber) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	snap := Snapshot{State: m.state, Session: m.current}
	m.mu.Unlock()
	fn(snap)
}

// Current retorna el snapshot actual.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.state, Session: m.current}
}

// setState valida la transición, actualiza y notifica en orden de registro.
func (m *Manager) setState(next State, sess identity.Session) {
	m.mu.Lock()
	ok := false
	switch m.state {
	case StateLoading:
		ok = next == StateAuthenticated || next == StateUnauthenticated
	case StateUnauthenticated:
		if next == StateUnauthenticated {
			// unauth→unauth es un no-op: un sign-out redundante no
			// re-notifica a los suscriptores
			m.mu.Unlock()
			return
		}
		ok = next == StateAuthenticated
	case StateAuthenticated:
		// auth→auth cubre el refresh transparente (mismo estado, token nuevo)
		ok = next == StateUnauthenticated || next == StateAuthenticated
	}
	if !ok {
		m.mu.Unlock()
		logger.L().Warn("session transition rejected",
			logger.String("from", m.state.String()),
			logger.String("to", next.String()),
		)
		return
	}
	m.state = next
	m.current = sess
	subs := make([]Subscriber, len(m.subs))
	copy(subs, m.subs)
	snap := Snapshot{State: next, Session: sess}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Restore intenta levantar la sesión persistida. Es la resolución del estado
// Loading inicial: siempre termina en Authenticated o Unauthenticated.
func (m *Manager) Restore(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	raw, err := m.store.Get(ctx, storeKey)
	if err != nil {
		if !cache.IsNotFound(err) {
			logger.From(ctx).Warn("session restore: store read failed", logger.Err(err))
		}
		m.setState(StateUnauthenticated, identity.Session{})
		return
	}

	var sess identity.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		_ = m.store.Delete(ctx, storeKey)
		m.setState(StateUnauthenticated, identity.Session{})
		return
	}

	// Token por vencer o vencido: refresh transparente antes de declarar
	// la sesión establecida.
	if time.Until(sess.ExpiresAt) < refreshSkew {
		if sess.RefreshToken == "" {
			_ = m.store.Delete(ctx, storeKey)
			m.setState(StateUnauthenticated, identity.Session{})
			return
		}
		renewed, err := m.provider.Refresh(ctx, sess.RefreshToken)
		if err != nil {
			_ = m.store.Delete(ctx, storeKey)
			m.setState(StateUnauthenticated, identity.Session{})
			return
		}
		sess = *renewed
	}

	m.persist(ctx, sess)
	m.setState(StateAuthenticated, sess)
}

func (m *Manager) persist(ctx context.Context, sess identity.Session) {
	b, err := json.Marshal(sess)
	if err != nil {
		return
	}
	if err := m.store.Set(ctx, storeKey, string(b), 0); err != nil {
		logger.From(ctx).Warn("session persist failed", logger.Err(err))
	}
}

// SignIn autentica con email y password.
func (m *Manager) SignIn(ctx context.Context, email, password string) (identity.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	sess, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return identity.Session{}, err
	}
	m.persist(ctx, *sess)
	m.setState(StateAuthenticated, *sess)
	return *sess, nil
}

// SignUp registra una cuenta. No establece sesión: el acceso depende de la
// confirmación por mail que dispara el proveedor.
func (m *Manager) SignUp(ctx context.Context, email, password, fullName string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.provider.SignUp(ctx, email, password, fullName)
}

// SignInWithProvider delega el handshake federado.
func (m *Manager) SignInWithProvider(ctx context.Context, provider string) (identity.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	sess, err := m.provider.SignInWithProvider(ctx, provider)
	if err != nil {
		return identity.Session{}, err
	}
	m.persist(ctx, *sess)
	m.setState(StateAuthenticated, *sess)
	return *sess, nil
}

// SignOut destruye el estado local incondicionalmente: la invalidación
// remota es best effort y su fallo no puede dejar una sesión viva después
// de un sign-out explícito.
func (m *Manager) SignOut(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	snap := m.Current()
	if snap.State == StateAuthenticated {
		if err := m.provider.SignOut(ctx, snap.Session.AccessToken); err != nil {
			logger.From(ctx).Warn("remote sign-out failed, clearing local session anyway", logger.Err(err))
		}
	}
	_ = m.store.Delete(ctx, storeKey)
	m.setState(StateUnauthenticated, identity.Session{})
}

// Token retorna un access token vigente, renovándolo transparentemente si
// está por vencer. Falla si no hay sesión establecida.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	snap := m.Current()
	if snap.State != StateAuthenticated {
		return "", fmt.Errorf("%w: no established session", identity.ErrSessionInvalid)
	}
	if time.Until(snap.Session.ExpiresAt) >= refreshSkew {
		return snap.Session.AccessToken, nil
	}

	renewed, err := m.provider.Refresh(ctx, snap.Session.RefreshToken)
	if err != nil {
		// Expiró sin refresh posible: la sesión local muere acá.
		_ = m.store.Delete(ctx, storeKey)
		m.setState(StateUnauthenticated, identity.Session{})
		return "", fmt.Errorf("%w: refresh failed", identity.ErrSessionInvalid)
	}
	m.persist(ctx, *renewed)
	m.setState(StateAuthenticated, *renewed)
	return renewed.AccessToken, nil
}
