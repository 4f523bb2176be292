package httpx

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingBearer   = errors.New("httpx: missing authorization header")
	ErrMalformedBearer = errors.New("httpx: malformed authorization header")
)

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively per RFC 6750.
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingBearer
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMalformedBearer
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMalformedBearer
	}
	return token, nil
}

// SetBearerChallenge adds the RFC 6750 WWW-Authenticate header to a 401.
func SetBearerChallenge(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
}
