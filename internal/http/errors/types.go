package errors

import "net/http"

// Catálogo de errores predefinidos. Los códigos son parte del contrato
// público de la API: renombrar uno rompe clientes.

// 400 Bad Request
var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "El cuerpo de la solicitud no es un JSON válido.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// 422 Unprocessable Entity
var (
	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Uno o más campos del reporte son inválidos.",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
)

// 401 Unauthorized
var (
	ErrTokenMissing = &AppError{
		Code:       "TOKEN_MISSING",
		Message:    "La solicitud requiere un token de acceso.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrSessionInvalid = &AppError{
		Code:       "SESSION_INVALID",
		Message:    "La sesión es inválida o expiró.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Email o contraseña incorrectos.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// 404 / 405
var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "El recurso solicitado no existe.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Método HTTP no permitido para esta ruta.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

// 409 Conflict
var (
	ErrEmailTaken = &AppError{
		Code:       "EMAIL_ALREADY_IN_USE",
		Message:    "Ya existe una cuenta registrada con ese email.",
		HTTPStatus: http.StatusConflict,
	}
)

// 429 Too Many Requests
var (
	// ErrRateLimited lleva el código estructurado que los clientes usan
	// para distinguir "esperá y reintentá" de un fallo real.
	ErrRateLimited = &AppError{
		Code:       "RATE_LIMITED",
		Message:    "Ya se aceptó un reporte para esta cuenta en la ventana actual.",
		HTTPStatus: http.StatusTooManyRequests,
	}
)

// 5xx
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "Error interno del servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrDeliveryFailed = &AppError{
		Code:       "DELIVERY_FAILED",
		Message:    "El reporte no pudo ser entregado al canal de soporte.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrProviderSignIn = &AppError{
		Code:       "PROVIDER_ERROR",
		Message:    "El inicio de sesión federado falló.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "El servicio de identidad no está disponible.",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)
