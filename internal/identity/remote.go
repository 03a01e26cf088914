package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client habla con el backend de identidad por HTTP JSON.
// Respuestas: 2xx con el payload esperado, o un body {"error":{"message":...}}.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// El backend responde errores como {"code","message"} (plano) o como
// {"error":{"message"}} según la versión. Se aceptan ambos.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, bearer string) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-API-Key", c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return resp.StatusCode, b, nil
}

func remoteMessage(body []byte) string {
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil {
		if env.Error.Message != "" {
			return env.Error.Message
		}
		return env.Message
	}
	return ""
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/v1/auth/login",
		map[string]string{"email": email, "password": password}, "")
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusOK:
		var s Session
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
		}
		return &s, nil
	case status == http.StatusUnauthorized:
		return nil, ErrInvalidCredentials
	case status >= 500:
		return nil, fmt.Errorf("%w: status=%d %s", ErrUnavailable, status, remoteMessage(body))
	default:
		return nil, fmt.Errorf("%w: status=%d %s", ErrInvalidCredentials, status, remoteMessage(body))
	}
}

func (c *Client) SignUp(ctx context.Context, email, password, fullName string) error {
	status, body, err := c.do(ctx, http.MethodPost, "/v1/auth/register",
		map[string]string{"email": email, "password": password, "full_name": fullName}, "")
	if err != nil {
		return err
	}
	switch {
	case status == http.StatusOK, status == http.StatusCreated, status == http.StatusAccepted:
		return nil
	case status == http.StatusConflict:
		return ErrEmailTaken
	case status >= 500:
		return fmt.Errorf("%w: status=%d %s", ErrUnavailable, status, remoteMessage(body))
	default:
		return fmt.Errorf("%w: status=%d %s", ErrProvider, status, remoteMessage(body))
	}
}

func (c *Client) SignInWithProvider(ctx context.Context, provider string) (*Session, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/v1/auth/social",
		map[string]string{"provider": provider}, "")
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusOK:
		var s Session
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
		}
		return &s, nil
	case status >= 500:
		return nil, fmt.Errorf("%w: status=%d %s", ErrUnavailable, status, remoteMessage(body))
	default:
		// Denegación o misconfiguración del proveedor federado.
		return nil, fmt.Errorf("%w: status=%d %s", ErrProvider, status, remoteMessage(body))
	}
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/v1/auth/refresh",
		map[string]string{"refresh_token": refreshToken}, "")
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusOK:
		var s Session
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
		}
		return &s, nil
	case status == http.StatusUnauthorized:
		return nil, ErrSessionInvalid
	case status >= 500:
		return nil, fmt.Errorf("%w: status=%d %s", ErrUnavailable, status, remoteMessage(body))
	default:
		return nil, ErrSessionInvalid
	}
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	status, body, err := c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, accessToken)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("%w: status=%d %s", ErrUnavailable, status, remoteMessage(body))
	}
	return nil
}
