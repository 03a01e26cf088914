// Package dispatch implementa el gateway de despacho: el único componente
// con un invariante real que proteger — a lo sumo un reporte aceptado por
// identidad por ventana de 60 segundos, incluso bajo envíos concurrentes.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xenocrypt01/smile-report-dash/internal/email"
	"github.com/xenocrypt01/smile-report-dash/internal/metrics"
	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
	"github.com/xenocrypt01/smile-report-dash/internal/rate"
	"github.com/xenocrypt01/smile-report-dash/internal/report"
)

// Receipt acredita que el reporte fue aceptado y entregado al transporte.
// No garantiza entrega final, solo el hand-off.
type Receipt struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	Recipient  string    `json:"recipient"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// Errores del gateway.
var (
	ErrRateLimited    = errors.New("dispatch: rate limited")
	ErrDeliveryFailed = errors.New("dispatch: delivery failed")
)

// RateLimitedError lleva el tiempo restante de la ventana.
// errors.Is(err, ErrRateLimited) matchea.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("dispatch: rate limited, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// Auditor persiste recibos para trazabilidad. Opcional: un fallo de
// auditoría no voltea un despacho ya entregado.
type Auditor interface {
	Record(ctx context.Context, r Receipt) error
}

// Gateway arma el correo y protege la ventana por identidad.
type Gateway struct {
	Windows   rate.Store
	Mailer    email.Sender
	Templates *email.Templates
	Subject   string
	Audit     Auditor // nil = sin auditoría

	now func() time.Time
}

func NewGateway(windows rate.Store, mailer email.Sender, tpls *email.Templates, subject string) *Gateway {
	if tpls == nil {
		tpls = email.DefaultTemplates()
	}
	if subject == "" {
		subject = "Security Report"
	}
	return &Gateway{
		Windows:   windows,
		Mailer:    mailer,
		Templates: tpls,
		Subject:   subject,
		now:       time.Now,
	}
}

// Dispatch ejecuta el despacho completo:
//
//  1. Check-and-set atómico de la ventana de la identidad. El identityID
//     viene SIEMPRE re-derivado del token de sesión por el caller, nunca
//     del payload del cliente.
//  2. Ventana cerrada: falla con RateLimitedError sin avanzar el timestamp
//     y sin mandar mail.
//  3. Permitido: renderiza el cuerpo y hace hand-off al transporte.
//  4. Fallo de envío: ErrDeliveryFailed. La ventana queda consumida igual:
//     es el trade-off documentado de simplicidad sobre reintento inmediato.
//  5. Éxito: recibo.
func (g *Gateway) Dispatch(ctx context.Context, identityID string, req report.Request) (*Receipt, error) {
	log := logger.From(ctx).With(
		logger.Layer("gateway"),
		logger.Op("Dispatch"),
		logger.IdentityID(identityID),
	)

	req.Normalize()

	res, err := g.Windows.Acquire(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("rate store: %w", err)
	}
	if !res.Allowed {
		metrics.ReportsRateLimited.Inc()
		log.Info("dispatch rejected by window", logger.RetryAfter(res.RetryAfter))
		return nil, &RateLimitedError{RetryAfter: res.RetryAfter}
	}

	acceptedAt := g.now().UTC()
	html, txt, err := g.Templates.Render(email.ReportVars{
		TargetPhone:      req.TargetPhone,
		TargetIdentifier: req.TargetIdentifier,
		ReportReason:     req.ReportReason,
		SenderName:       req.SenderName,
		ContactDetails:   req.ContactDetails,
		SubmittedAt:      acceptedAt.Format(time.RFC3339),
	})
	if err != nil {
		// La ventana ya se consumió; render no debería fallar con los
		// templates embebidos, pero un template custom roto cae acá.
		metrics.ReportsDeliveryFailed.Inc()
		return nil, fmt.Errorf("%w: render: %v", ErrDeliveryFailed, err)
	}

	if err := g.Mailer.Send(req.RecipientEmail, g.Subject, html, txt); err != nil {
		metrics.ReportsDeliveryFailed.Inc()
		log.Warn("mail hand-off failed, window stays consumed", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	rcpt := Receipt{
		ID:         uuid.NewString(),
		IdentityID: identityID,
		Recipient:  req.RecipientEmail,
		AcceptedAt: acceptedAt,
	}
	if g.Audit != nil {
		if err := g.Audit.Record(ctx, rcpt); err != nil {
			log.Warn("receipt audit failed", logger.Err(err), logger.ReceiptID(rcpt.ID))
		}
	}

	metrics.ReportsAccepted.Inc()
	log.Info("report dispatched", logger.ReceiptID(rcpt.ID), logger.Recipient(rcpt.Recipient))
	return &rcpt, nil
}
