// Package errors define el formato de error estándar de la API: todo error
// que sale por HTTP lleva un código estable legible por máquina. Los clientes
// discriminan SIEMPRE por Code, nunca por el texto del mensaje.
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Field es un detalle de validación por campo.
type Field struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// AppError es la estructura estándar de errores de la aplicación.
type AppError struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Fields     []Field       `json:"fields,omitempty"`
	HTTPStatus int           `json:"-"` // solo para el header, no se serializa
	RetryAfter time.Duration `json:"-"` // >0: se emite el header Retry-After
	Err        error         `json:"-"` // causa original, para logs
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap expone la causa original.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail retorna una COPIA con detalle adicional, para no mutar las
// variables base compartidas.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause retorna una copia con la causa original adjunta.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// WithFields retorna una copia con los detalles de validación por campo.
func (e *AppError) WithFields(fields []Field) *AppError {
	newErr := *e
	newErr.Fields = fields
	return &newErr
}

// WithRetryAfter retorna una copia que emite el header Retry-After.
func (e *AppError) WithRetryAfter(d time.Duration) *AppError {
	newErr := *e
	newErr.RetryAfter = d
	return &newErr
}

// FromError convierte cualquier error en un AppError. Lo que no sea un
// AppError se colapsa en un 500 genérico conservando la causa para logs.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternal.WithCause(err)
}

type errorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Detail  string  `json:"detail,omitempty"`
	Fields  []Field `json:"fields,omitempty"`
}

// WriteError serializa el error con su status y headers asociados.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if appErr.RetryAfter > 0 {
		// Retry-After va en segundos enteros, redondeando hacia arriba para
		// que el cliente nunca reintente antes de tiempo.
		secs := int64((appErr.RetryAfter + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
	}
	w.WriteHeader(appErr.HTTPStatus)

	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
		Fields:  appErr.Fields,
	})
}
