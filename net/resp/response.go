// Package resp provides the JSON response envelope shared by all HTTP
// handlers. Success responses return the payload directly; failures return
// an Exception with a business code from ecode.
package resp

import (
	"encoding/json"
	"net/http"

	"github.com/learnhub/learnhub/ecode"
)

// Exception represents the failure response structure.
type Exception struct {
	Status  int    `json:"status,omitempty"`  // HTTP status
	Code    int    `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Validation errors
}

func newException(status, code int, message string, data ...any) *Exception {
	var errs any
	if len(data) > 0 {
		errs = data[0]
	}
	return &Exception{
		Status:  status,
		Code:    code,
		Message: message,
		Errors:  errs,
	}
}

// Success writes a 200 response with the given payload.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode writes a success response with a custom status code.
// A string payload becomes {"message": ...}; no payload becomes {"message": "ok"}.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var payload any
	if len(data) > 0 {
		payload = data[0]
	}

	if s, ok := payload.(string); ok {
		payload = map[string]any{"message": s}
	}
	if payload == nil {
		if statusCode == http.StatusNoContent {
			w.WriteHeader(statusCode)
			return
		}
		payload = map[string]any{"message": "ok"}
	}

	writeJSON(w, statusCode, payload)
}

// Fail writes a failure response.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = newException(http.StatusInternalServerError, ecode.ServerErr, ecode.Text(ecode.ServerErr))
	}

	status := r.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	code := r.Code
	if code == 0 {
		code = ecode.RequestErr
	}
	message := r.Message
	if message == "" {
		message = ecode.Text(code)
	}

	writeJSON(w, status, &Exception{
		Code:    code,
		Message: message,
		Errors:  r.Errors,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode JSON response", http.StatusInternalServerError)
	}
}
