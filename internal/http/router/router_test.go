package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenocrypt01/smile-report-dash/internal/dispatch"
	"github.com/xenocrypt01/smile-report-dash/internal/http/controllers"
	authsvc "github.com/xenocrypt01/smile-report-dash/internal/http/services/auth"
	healthsvc "github.com/xenocrypt01/smile-report-dash/internal/http/services/health"
	reportssvc "github.com/xenocrypt01/smile-report-dash/internal/http/services/reports"
	"github.com/xenocrypt01/smile-report-dash/internal/identity"
	"github.com/xenocrypt01/smile-report-dash/internal/rate"
)

const testSecret = "test-secret-0123456789abcdef"

type capturingSender struct {
	sent []string // recipientes, en orden
	fail bool
}

func (s *capturingSender) Send(to, subject, htmlBody, textBody string) error {
	if s.fail {
		return assert.AnError
	}
	s.sent = append(s.sent, to)
	return nil
}

type env struct {
	srv    *httptest.Server
	stub   *identity.Stub
	sender *capturingSender
}

func newEnv(t *testing.T) *env {
	t.Helper()

	stub := identity.NewStub(testSecret, time.Hour)
	_, err := stub.Seed("alice@example.test", "hunter2!", "Alice")
	require.NoError(t, err)

	sender := &capturingSender{}
	gw := dispatch.NewGateway(rate.NewMemoryStore(60*time.Second), sender, nil, "Reporte de seguridad")

	ctrls := controllers.New(controllers.Services{
		Auth:    authsvc.NewService(authsvc.Deps{Provider: stub}),
		Reports: reportssvc.NewService(reportssvc.Deps{Gateway: gw}),
		Health:  healthsvc.NewService("test"),
	})

	h := New(Deps{Controllers: ctrls, JWTSecret: testSecret})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &env{srv: srv, stub: stub, sender: sender}
}

func (e *env) post(t *testing.T, path, token string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *env) login(t *testing.T) string {
	t.Helper()
	resp := e.post(t, "/v1/auth/login", "", map[string]string{
		"email":    "alice@example.test",
		"password": "hunter2!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	tok, _ := body["access_token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func validReport() map[string]string {
	return map[string]string{
		"target_phone":    "+5491155550000",
		"report_reason":   "Suplantación de identidad",
		"recipient_email": "abuse@example.test",
		"sender_name":     "Alice",
		"contact_details": "alice@example.test",
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	e := newEnv(t)
	resp := e.post(t, "/v1/auth/login", "", map[string]string{
		"email":    "alice@example.test",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newEnv(t)
	resp := e.post(t, "/v1/auth/register", "", map[string]string{
		"email":    "alice@example.test",
		"password": "whatever1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "EMAIL_ALREADY_IN_USE", body["code"])
}

func TestSubmit_WithoutToken(t *testing.T) {
	e := newEnv(t)
	resp := e.post(t, "/v1/reports", "", validReport())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "TOKEN_MISSING", body["code"])
}

func TestSubmit_GarbageToken(t *testing.T) {
	e := newEnv(t)
	resp := e.post(t, "/v1/reports", "not-a-jwt", validReport())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "SESSION_INVALID", body["code"])
}

func TestSubmit_Accepted(t *testing.T) {
	e := newEnv(t)
	tok := e.login(t)

	resp := e.post(t, "/v1/reports", tok, validReport())
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["receipt_id"])
	assert.Equal(t, []string{"abuse@example.test"}, e.sender.sent)
}

func TestSubmit_ValidationCollectsAllFields(t *testing.T) {
	e := newEnv(t)
	tok := e.login(t)

	resp := e.post(t, "/v1/reports", tok, map[string]string{
		"target_phone":    "abc",
		"recipient_email": "not-an-email",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])

	fields, ok := body["fields"].([]any)
	require.True(t, ok, "response must carry per-field details")
	// phone malformado, email malformado y 3 requeridos ausentes
	assert.Len(t, fields, 5)
	assert.Empty(t, e.sender.sent, "an invalid report must never reach the mailer")
}

func TestSubmit_SecondWithinWindowIsRateLimited(t *testing.T) {
	e := newEnv(t)
	tok := e.login(t)

	resp := e.post(t, "/v1/reports", tok, validReport())
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	resp = e.post(t, "/v1/reports", tok, validReport())
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	retryAfter := resp.Header.Get("Retry-After")
	body := decodeBody(t, resp)

	// El contrato es el código estructurado, no el texto del mensaje.
	assert.Equal(t, "RATE_LIMITED", body["code"])
	assert.NotEmpty(t, retryAfter)
	assert.Len(t, e.sender.sent, 1, "the window rejection must not hand off a second mail")
}

func TestSubmit_DeliveryFailureConsumesWindow(t *testing.T) {
	e := newEnv(t)
	tok := e.login(t)
	e.sender.fail = true

	resp := e.post(t, "/v1/reports", tok, validReport())
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "DELIVERY_FAILED", body["code"])

	// La ventana quedó consumida aunque la entrega falló.
	e.sender.fail = false
	resp = e.post(t, "/v1/reports", tok, validReport())
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	resp, err := http.Get(e.srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestUnknownRoute(t *testing.T) {
	e := newEnv(t)
	resp, err := http.Get(e.srv.URL + "/nope")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}
