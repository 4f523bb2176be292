package service

import (
	"errors"
	"maps"
)

// Kind classifies a failure so the transport layer can translate it without
// looking at message text.
type Kind string

const (
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation_failed"
	KindDelivery     Kind = "delivery_failed"
	KindInternal     Kind = "internal"
)

// Error is a classified failure. Two Errors match under errors.Is when their
// codes are equal, so a sentinel still matches after wrap attaches a cause.
type Error struct {
	Kind    Kind
	Code    string
	Message string

	// Fields carries per-field reasons for validation failures.
	Fields map[string]string

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) wrap(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrEmailTaken = newError(KindConflict, "email_taken", "an account with this email already exists")

	ErrAccountNotFound = newError(KindNotFound, "account_not_found", "account not found")

	ErrAccountDeleted        = newError(KindForbidden, "account_deleted", "this account has been deleted")
	ErrAccountBanned         = newError(KindForbidden, "account_banned", "this account has been suspended")
	ErrResetTokenMismatch    = newError(KindForbidden, "reset_token_mismatch", "invalid reset token")
	ErrTokenIdentityMismatch = newError(KindForbidden, "token_identity_mismatch", "token does not belong to this account")
	ErrRoleChanged           = newError(KindForbidden, "role_changed", "account role changed since the token was issued")
	ErrNotAccountOwner       = newError(KindForbidden, "not_account_owner", "you may only manage your own account")

	ErrInvalidCredentials  = newError(KindUnauthorized, "invalid_credentials", "invalid credentials")
	ErrMissingToken        = newError(KindUnauthorized, "missing_token", "you are not authorized")
	ErrMalformedAuthHeader = newError(KindUnauthorized, "malformed_auth_header", "invalid token format")
	ErrTokenInvalid        = newError(KindUnauthorized, "token_invalid", "invalid token")
	ErrTokenExpired        = newError(KindUnauthorized, "token_expired", "token expired")
	ErrTokenPurpose        = newError(KindUnauthorized, "token_purpose", "token cannot be used here")
	ErrResetTokenUsed      = newError(KindUnauthorized, "reset_token_used", "this reset link has already been used")
	ErrInsufficientRole    = newError(KindUnauthorized, "insufficient_role", "you are not authorized")

	ErrValidation = newError(KindValidation, "validation_failed", "validation failed")

	ErrDeliveryFailed = newError(KindDelivery, "delivery_failed", "could not send the email")
)

// NewValidationError reports malformed input with a reason per field.
func NewValidationError(fields map[string]string) *Error {
	e := *ErrValidation
	e.Fields = maps.Clone(fields)
	return &e
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
