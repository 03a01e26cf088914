// Package reports contiene los DTOs de las rutas de reportes.
package reports

import (
	"time"

	"github.com/xenocrypt01/smile-report-dash/internal/report"
)

// SubmitRequest es el body de POST /v1/reports. Es exactamente el payload
// del formulario; la identidad del remitente sale del token, nunca de acá.
type SubmitRequest struct {
	TargetPhone      string `json:"target_phone"`
	TargetIdentifier string `json:"target_identifier,omitempty"`
	ReportReason     string `json:"report_reason"`
	RecipientEmail   string `json:"recipient_email"`
	SenderName       string `json:"sender_name"`
	ContactDetails   string `json:"contact_details"`
}

// ToReport convierte el DTO al request del dominio.
func (in SubmitRequest) ToReport() report.Request {
	return report.Request{
		TargetPhone:      in.TargetPhone,
		TargetIdentifier: in.TargetIdentifier,
		ReportReason:     in.ReportReason,
		RecipientEmail:   in.RecipientEmail,
		SenderName:       in.SenderName,
		ContactDetails:   in.ContactDetails,
	}
}

// ReceiptResponse es la respuesta 202 de un reporte aceptado.
type ReceiptResponse struct {
	ReceiptID  string    `json:"receipt_id"`
	AcceptedAt time.Time `json:"accepted_at"`
}
