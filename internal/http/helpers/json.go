// Package helpers agrupa utilidades compartidas por controllers.
package helpers

import (
	"encoding/json"
	"net/http"
	"strings"

	httperrors "github.com/xenocrypt01/smile-report-dash/internal/http/errors"
)

// maxBodyBytes limita el body a 64KB: ningún payload legítimo de esta API
// se acerca a eso.
const maxBodyBytes = 64 << 10

// ReadJSON decodifica el body JSON en v. Valida Content-Type, limita el
// tamaño y rechaza campos desconocidos. Devuelve false si ya escribió la
// respuesta de error.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("Content-Type debe ser application/json"))
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithCause(err))
		return false
	}
	return true
}

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
