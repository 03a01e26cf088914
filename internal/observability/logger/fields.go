package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// IdentityID crea un campo para el ID de la identidad autenticada.
func IdentityID(v string) zap.Field {
	return zap.String("identity_id", v)
}

// ReceiptID crea un campo para el ID del recibo de despacho.
func ReceiptID(v string) zap.Field {
	return zap.String("receipt_id", v)
}

// Provider crea un campo para el proveedor de identidad federado.
func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

// Recipient crea un campo para el destinatario del reporte.
// Usar con cuidado en prod: es un dato de contacto.
func Recipient(v string) zap.Field {
	return zap.String("recipient", v)
}

// RetryAfter crea un campo para el tiempo restante de la ventana de rate limit.
func RetryAfter(v time.Duration) zap.Field {
	return zap.Duration("retry_after", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller, service, store).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Driver crea un campo para el backend seleccionado (memory, redis, postgres).
func Driver(v string) zap.Field {
	return zap.String("driver", v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}
