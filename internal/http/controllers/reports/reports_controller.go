// Package reports contiene el controller de envío de reportes.
package reports

import (
	"errors"
	"net/http"

	"github.com/xenocrypt01/smile-report-dash/internal/dispatch"
	dto "github.com/xenocrypt01/smile-report-dash/internal/http/dto/reports"
	httperrors "github.com/xenocrypt01/smile-report-dash/internal/http/errors"
	"github.com/xenocrypt01/smile-report-dash/internal/http/helpers"
	"github.com/xenocrypt01/smile-report-dash/internal/http/middlewares"
	svc "github.com/xenocrypt01/smile-report-dash/internal/http/services/reports"
	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
)

// Controller maneja las rutas de reportes.
type Controller struct {
	service svc.Service
}

// NewController crea el controller de reportes.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Submit maneja POST /v1/reports. Requiere sesión: la identidad sale del
// token verificado por el middleware, no del body.
func (c *Controller) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identityID := middlewares.GetIdentityID(ctx)
	if identityID == "" {
		// RequireSession no aplicado: error de wiring, no del cliente.
		logger.From(ctx).Error("submit reached without session middleware")
		httperrors.WriteError(w, httperrors.ErrInternal)
		return
	}

	var in dto.SubmitRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	receipt, err := c.service.Submit(ctx, identityID, in)
	if err != nil {
		writeSubmitError(w, r, err)
		return
	}

	logger.From(ctx).Info("report accepted",
		logger.ReceiptID(receipt.ReceiptID),
		logger.String("account_email", middlewares.GetEmail(ctx)),
	)

	// 202: el reporte fue aceptado y entregado al canal de soporte, pero el
	// procesamiento del reporte en sí es asincrónico del otro lado.
	helpers.WriteJSON(w, http.StatusAccepted, receipt)
}

func writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *svc.ValidationError
	if errors.As(err, &verr) {
		fields := make([]httperrors.Field, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, httperrors.Field{Field: f.Field, Reason: f.Reason})
		}
		httperrors.WriteError(w, httperrors.ErrValidationFailed.WithFields(fields))
		return
	}

	var rlErr *dispatch.RateLimitedError
	switch {
	case errors.As(err, &rlErr):
		httperrors.WriteError(w, httperrors.ErrRateLimited.WithRetryAfter(rlErr.RetryAfter))
	case errors.Is(err, dispatch.ErrDeliveryFailed):
		httperrors.WriteError(w, httperrors.ErrDeliveryFailed)
	default:
		logger.From(r.Context()).Error("unexpected submit error", logger.Err(err))
		httperrors.WriteError(w, err)
	}
}
