// Package report define el payload de un reporte de seguridad y su
// validación. La validación es pura: no toca red ni estado compartido.
package report

import "strings"

// Request es el reporte que arma el cliente a partir del formulario.
// SenderName y ContactDetails se precargan con el perfil de la identidad
// autenticada, pero el usuario puede editarlos antes de enviar.
type Request struct {
	TargetPhone      string `json:"target_phone"`
	TargetIdentifier string `json:"target_identifier,omitempty"`
	ReportReason     string `json:"report_reason"`
	RecipientEmail   string `json:"recipient_email"`
	SenderName       string `json:"sender_name"`
	ContactDetails   string `json:"contact_details"`
}

// Normalize recorta espacios en todos los campos. Se aplica antes de validar
// para que "   " cuente como vacío.
func (r *Request) Normalize() {
	r.TargetPhone = strings.TrimSpace(r.TargetPhone)
	r.TargetIdentifier = strings.TrimSpace(r.TargetIdentifier)
	r.ReportReason = strings.TrimSpace(r.ReportReason)
	r.RecipientEmail = strings.TrimSpace(r.RecipientEmail)
	r.SenderName = strings.TrimSpace(r.SenderName)
	r.ContactDetails = strings.TrimSpace(r.ContactDetails)
}
