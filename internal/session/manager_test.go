package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenocrypt01/smile-report-dash/internal/cache"
	"github.com/xenocrypt01/smile-report-dash/internal/identity"
)

type fakeProvider struct {
	signInSess   *identity.Session
	signInErr    error
	refreshSess  *identity.Session
	refreshErr   error
	signOutErr   error
	signOutCalls int
	refreshCalls int
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signInSess, nil
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, fullName string) error {
	return nil
}

func (f *fakeProvider) SignInWithProvider(ctx context.Context, provider string) (*identity.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signInSess, nil
}

func (f *fakeProvider) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshSess, nil
}

func (f *fakeProvider) SignOut(ctx context.Context, accessToken string) error {
	f.signOutCalls++
	return f.signOutErr
}

func newStore(t *testing.T) cache.Client {
	t.Helper()
	c, err := cache.New(cache.Config{Kind: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func liveSession(id string) *identity.Session {
	return &identity.Session{
		AccessToken:  "tok-" + id,
		RefreshToken: "ref-" + id,
		ExpiresAt:    time.Now().Add(time.Hour),
		Profile:      identity.Profile{ID: id, Email: id + "@example.test"},
	}
}

func TestSubscribe_InitialStateIsLoading(t *testing.T) {
	m := New(&fakeProvider{}, newStore(t))

	var seen []State
	m.Subscribe(func(s Snapshot) { seen = append(seen, s.State) })

	require.Equal(t, []State{StateLoading}, seen,
		"a subscriber registered before Restore must observe Loading first")
}

func TestRestore_NoPersistedToken(t *testing.T) {
	m := New(&fakeProvider{}, newStore(t))

	var seen []State
	m.Subscribe(func(s Snapshot) { seen = append(seen, s.State) })
	m.Restore(context.Background())

	assert.Equal(t, []State{StateLoading, StateUnauthenticated}, seen)
	assert.Equal(t, StateUnauthenticated, m.Current().State)
}

func TestRestore_ValidPersistedToken(t *testing.T) {
	store := newStore(t)
	sess := liveSession("u1")
	b, err := json.Marshal(sess)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "session", string(b), 0))

	p := &fakeProvider{}
	m := New(p, store)

	var seen []Snapshot
	m.Subscribe(func(s Snapshot) { seen = append(seen, s) })
	m.Restore(context.Background())

	require.Len(t, seen, 2)
	assert.Equal(t, StateLoading, seen[0].State)
	assert.Equal(t, StateAuthenticated, seen[1].State)
	assert.Equal(t, "u1", seen[1].Session.Profile.ID)
	assert.Zero(t, p.refreshCalls, "a fresh token must not be refreshed")
}

func TestRestore_ExpiredTokenRefreshes(t *testing.T) {
	store := newStore(t)
	stale := liveSession("u1")
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	b, _ := json.Marshal(stale)
	require.NoError(t, store.Set(context.Background(), "session", string(b), 0))

	p := &fakeProvider{refreshSess: liveSession("u1")}
	m := New(p, store)
	m.Restore(context.Background())

	assert.Equal(t, StateAuthenticated, m.Current().State)
	assert.Equal(t, 1, p.refreshCalls)
}

func TestRestore_ExpiredTokenRefreshFails(t *testing.T) {
	store := newStore(t)
	stale := liveSession("u1")
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	b, _ := json.Marshal(stale)
	require.NoError(t, store.Set(context.Background(), "session", string(b), 0))

	p := &fakeProvider{refreshErr: identity.ErrSessionInvalid}
	m := New(p, store)
	m.Restore(context.Background())

	assert.Equal(t, StateUnauthenticated, m.Current().State)
	_, err := store.Get(context.Background(), "session")
	assert.True(t, cache.IsNotFound(err), "a dead session must be evicted from the store")
}

func TestSignIn_TransitionsAndPersists(t *testing.T) {
	store := newStore(t)
	p := &fakeProvider{signInSess: liveSession("u1")}
	m := New(p, store)
	m.Restore(context.Background())

	var seen []State
	m.Subscribe(func(s Snapshot) { seen = append(seen, s.State) })

	got, err := m.SignIn(context.Background(), "u1@example.test", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.Profile.ID)
	assert.Equal(t, []State{StateUnauthenticated, StateAuthenticated}, seen)

	raw, err := store.Get(context.Background(), "session")
	require.NoError(t, err)
	var persisted identity.Session
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, got.AccessToken, persisted.AccessToken)
}

func TestSignIn_FailureKeepsState(t *testing.T) {
	p := &fakeProvider{signInErr: identity.ErrInvalidCredentials}
	m := New(p, newStore(t))
	m.Restore(context.Background())

	_, err := m.SignIn(context.Background(), "u1@example.test", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Equal(t, StateUnauthenticated, m.Current().State)
}

func TestSignOut_ClearsLocalStateEvenWhenRemoteFails(t *testing.T) {
	store := newStore(t)
	p := &fakeProvider{
		signInSess: liveSession("u1"),
		signOutErr: errors.New("backend down"),
	}
	m := New(p, store)
	m.Restore(context.Background())
	_, err := m.SignIn(context.Background(), "u1@example.test", "hunter2")
	require.NoError(t, err)

	m.SignOut(context.Background())

	assert.Equal(t, 1, p.signOutCalls)
	assert.Equal(t, StateUnauthenticated, m.Current().State)
	_, err = store.Get(context.Background(), "session")
	assert.True(t, cache.IsNotFound(err))
}

func TestSignOut_WhileUnauthenticatedDoesNotRenotify(t *testing.T) {
	p := &fakeProvider{}
	m := New(p, newStore(t))
	m.Restore(context.Background())

	var seen []State
	m.Subscribe(func(s Snapshot) { seen = append(seen, s.State) })

	m.SignOut(context.Background())

	assert.Equal(t, []State{StateUnauthenticated}, seen,
		"a redundant sign-out must not emit a second Unauthenticated")
	assert.Zero(t, p.signOutCalls, "no remote call without an established session")
	assert.Equal(t, StateUnauthenticated, m.Current().State)
}

func TestSubscribers_NotifiedInRegistrationOrder(t *testing.T) {
	p := &fakeProvider{signInSess: liveSession("u1")}
	m := New(p, newStore(t))
	m.Restore(context.Background())

	var order []string
	m.Subscribe(func(s Snapshot) { order = append(order, "a:"+s.State.String()) })
	m.Subscribe(func(s Snapshot) { order = append(order, "b:"+s.State.String()) })

	_, err := m.SignIn(context.Background(), "u1@example.test", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a:unauthenticated",
		"b:unauthenticated",
		"a:authenticated",
		"b:authenticated",
	}, order)
}

func TestToken_RefreshesNearExpiry(t *testing.T) {
	store := newStore(t)
	soon := liveSession("u1")
	soon.ExpiresAt = time.Now().Add(5 * time.Second) // dentro del skew
	renewed := liveSession("u1")
	renewed.AccessToken = "tok-renewed"

	p := &fakeProvider{signInSess: soon, refreshSess: renewed}
	m := New(p, store)
	m.Restore(context.Background())
	_, err := m.SignIn(context.Background(), "u1@example.test", "hunter2")
	require.NoError(t, err)

	tok, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-renewed", tok)
	assert.Equal(t, 1, p.refreshCalls)
}

func TestToken_WithoutSession(t *testing.T) {
	m := New(&fakeProvider{}, newStore(t))
	m.Restore(context.Background())

	_, err := m.Token(context.Background())
	assert.ErrorIs(t, err, identity.ErrSessionInvalid)
}
