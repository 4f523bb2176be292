package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/idgate/internal/auth/service"
	"github.com/aussiebroadwan/idgate/pkg/authsdk"
	"github.com/aussiebroadwan/idgate/pkg/httpx"
	"github.com/aussiebroadwan/idgate/pkg/slogx"
)

// writeError translates a service failure into a failure envelope. Anything
// that is not a classified *service.Error is logged and hidden behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		log.Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	status := statusFor(svcErr.Kind)
	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request failed", "code", svcErr.Code, "err", err)
	case status == http.StatusUnauthorized && !errors.Is(err, service.ErrInvalidCredentials):
		httpx.SetBearerChallenge(w, svcErr.Message)
	}

	apiErr := &authsdk.APIError{
		StatusCode: status,
		Message:    svcErr.Message,
		Fields:     svcErr.Fields,
	}
	apiErr.WriteError(w)
}

func statusFor(k service.Kind) int {
	switch k {
	case service.KindConflict:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindDelivery:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeOK writes a success envelope.
func writeOK(w http.ResponseWriter, status int, message string, data any) {
	httpx.WriteJSON(w, status, authsdk.Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

type validator interface {
	Validate() map[string]string
}

// decodeRequest decodes the body into dst and validates it, writing the
// failure response itself when either step fails.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst validator) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		slogx.FromContext(r.Context()).Debug("bad request body", "err", err)
		authsdk.ErrBadRequest.WriteError(w)
		return false
	}
	if fields := dst.Validate(); fields != nil {
		authsdk.NewValidationError(fields).WriteError(w)
		return false
	}
	return true
}
