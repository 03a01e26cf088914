// Package reports implementa el service de envío de reportes: validación
// completa del payload y hand-off al dispatch gateway.
package reports

import (
	"context"
	"fmt"

	"github.com/xenocrypt01/smile-report-dash/internal/dispatch"
	dto "github.com/xenocrypt01/smile-report-dash/internal/http/dto/reports"
	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
	"github.com/xenocrypt01/smile-report-dash/internal/report"
)

// ValidationError agrupa todas las violaciones del payload. El controller
// las serializa campo por campo; el usuario corrige todo en una pasada.
type ValidationError struct {
	Fields []report.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("report validation failed: %s", report.JoinFieldErrors(e.Fields))
}

// Service es el contrato del service de reportes.
type Service interface {
	Submit(ctx context.Context, identityID string, in dto.SubmitRequest) (*dto.ReceiptResponse, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Gateway *dispatch.Gateway
}

type service struct {
	deps Deps
}

// NewService crea el service de reportes.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) Submit(ctx context.Context, identityID string, in dto.SubmitRequest) (*dto.ReceiptResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("reports"),
		logger.Op("Submit"),
		logger.IdentityID(identityID),
	)

	req := in.ToReport()
	req.Normalize()

	// Se recolectan TODAS las violaciones antes de fallar: un reporte con
	// tres campos rotos produce tres errores, no uno.
	if fields := report.Validate(req); len(fields) > 0 {
		log.Debug("report rejected by validation", logger.Int("violations", len(fields)))
		return nil, &ValidationError{Fields: fields}
	}

	receipt, err := s.deps.Gateway.Dispatch(ctx, identityID, req)
	if err != nil {
		return nil, err
	}

	return &dto.ReceiptResponse{
		ReceiptID:  receipt.ID,
		AcceptedAt: receipt.AcceptedAt,
	}, nil
}
