package report

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError describe una violación de validación en un campo concreto.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var (
	// Forma permisiva de teléfono: '+' opcional, 7 a 15 dígitos.
	phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	// Forma estándar de email, sin pretender validar RFC 5322 completo.
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Validate aplica todas las reglas y retorna TODAS las violaciones juntas,
// sin cortar en la primera, para que el caller pueda mostrarlas de una vez.
// Un slice vacío (nil) significa que el reporte es válido.
func Validate(r Request) []FieldError {
	r.Normalize()

	var errs []FieldError

	if r.TargetPhone == "" {
		errs = append(errs, FieldError{Field: "target_phone", Reason: "requerido"})
	} else if !phoneRe.MatchString(r.TargetPhone) {
		errs = append(errs, FieldError{Field: "target_phone", Reason: "formato inválido: se espera '+' opcional y 7-15 dígitos"})
	}

	if r.ReportReason == "" {
		errs = append(errs, FieldError{Field: "report_reason", Reason: "requerido"})
	}

	if r.RecipientEmail == "" {
		errs = append(errs, FieldError{Field: "recipient_email", Reason: "requerido"})
	} else if !emailRe.MatchString(r.RecipientEmail) {
		errs = append(errs, FieldError{Field: "recipient_email", Reason: "formato de email inválido"})
	}

	if r.SenderName == "" {
		errs = append(errs, FieldError{Field: "sender_name", Reason: "requerido"})
	}

	if r.ContactDetails == "" {
		errs = append(errs, FieldError{Field: "contact_details", Reason: "requerido"})
	}

	return errs
}

// JoinFieldErrors arma un detalle legible "campo: razón; campo: razón".
func JoinFieldErrors(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}
