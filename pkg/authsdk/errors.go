package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/idgate/pkg/httpx"
)

// APIError is a failed response. The server writes it with WriteError and
// the client decodes it from the envelope.
type APIError struct {
	StatusCode int
	Message    string

	// Fields holds per-field reasons for validation failures.
	Fields map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%d %s: %v", e.StatusCode, e.Message, e.Fields)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// WriteError writes the error as a failure envelope.
func (e *APIError) WriteError(w http.ResponseWriter) {
	var data any
	if len(e.Fields) > 0 {
		data = e.Fields
	}
	httpx.WriteJSON(w, e.StatusCode, Envelope{
		Success: false,
		Message: e.Message,
		Data:    data,
	})
}

// ============================================================================
// Predefined errors
// ============================================================================

var (
	// ErrBadRequest is returned when the body is not the expected JSON.
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest, Message: "request body is not valid JSON for this endpoint"}

	// ErrNotFound is returned for unknown routes.
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound, Message: "API not found"}

	// ErrServerError is returned when something unexpected failed server-side.
	ErrServerError = &APIError{StatusCode: http.StatusInternalServerError, Message: "internal server error"}
)

// NewValidationError is a 400 with a reason per field.
func NewValidationError(fields map[string]string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Message: "validation failed", Fields: fields}
}

// StatusCode returns the HTTP status of an *APIError, or 0.
func StatusCode(err error) int {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var env struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Message == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	var fields map[string]string
	if len(env.Data) > 0 && json.Unmarshal(env.Data, &fields) == nil && len(fields) > 0 {
		apiErr.Fields = fields
	}
	return apiErr
}
