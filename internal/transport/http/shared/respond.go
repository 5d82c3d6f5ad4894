// Package shared holds the JSON response helpers every handler uses so error
// shape and status mapping stay uniform across modules.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "hearth/pkg/domain-errors"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteJSON serializes v with the given status. Encoding failures are
// swallowed: headers are already on the wire by then.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a coded domain error to its HTTP status. Uncoded errors
// surface as 500 without leaking internals.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := err.Error()
	if code == dErrors.CodeInternal {
		message = "internal server error"
	}
	WriteJSON(w, statusFor(code), errorBody{Error: message, Code: string(code)})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeInvariantViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
