package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xenocrypt01/smile-report-dash/internal/report"
	"github.com/xenocrypt01/smile-report-dash/internal/session"
)

// apiClient habla con el endpoint de reportes del servicio. El token sale
// del session manager, que lo renueva solo si hace falta.
type apiClient struct {
	baseURL string
	manager *session.Manager
}

// apiError es el envelope de error del servicio. Los clientes discriminan
// por Code, nunca por Message.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fields  []struct {
		Field  string `json:"field"`
		Reason string `json:"reason"`
	} `json:"fields,omitempty"`
}

type receipt struct {
	ReceiptID  string    `json:"receipt_id"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// errRateLimited se reconoce por el código estructurado RATE_LIMITED.
type errRateLimited struct {
	retryAfter string // header Retry-After, en segundos
}

func (e *errRateLimited) Error() string {
	if e.retryAfter != "" {
		return fmt.Sprintf("límite alcanzado: reintentá en %s segundos", e.retryAfter)
	}
	return "límite alcanzado: ya se aceptó un reporte en la ventana actual"
}

func (c *apiClient) submitReport(ctx context.Context, req report.Request) (*receipt, error) {
	token, err := c.manager.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("no hay sesión activa (corré `reportctl login`): %w", err)
	}

	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.baseURL, "/")+"/v1/reports", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Authorization", "Bearer "+token)

	resp, err := (&http.Client{Timeout: requestTimeout}).Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("servicio inalcanzable: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode == http.StatusAccepted {
		var r receipt
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, fmt.Errorf("respuesta inesperada: %w", err)
		}
		return &r, nil
	}

	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)

	switch apiErr.Code {
	case "RATE_LIMITED":
		return nil, &errRateLimited{retryAfter: resp.Header.Get("Retry-After")}
	case "VALIDATION_FAILED":
		var sb strings.Builder
		sb.WriteString("el servicio rechazó el reporte:")
		for _, f := range apiErr.Fields {
			fmt.Fprintf(&sb, "\n  - %s: %s", f.Field, f.Reason)
		}
		return nil, fmt.Errorf("%s", sb.String())
	case "DELIVERY_FAILED":
		return nil, fmt.Errorf("el reporte no pudo entregarse; la ventana quedó consumida, reintentá en un minuto")
	default:
		if apiErr.Message != "" {
			return nil, fmt.Errorf("%s (status=%d)", apiErr.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("status inesperado %d", resp.StatusCode)
	}
}
