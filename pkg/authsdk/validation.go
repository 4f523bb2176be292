package authsdk

import (
	"net/mail"
	"strings"
)

const (
	minPasswordLen = 6

	// maxPasswordBytes is bcrypt's input limit.
	maxPasswordBytes = 72

	requiredReason = "required"
)

// Validate checks the registration payload. Returns field→reason, or nil.
func (r RegisterRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "name is required"
	} else if len(r.Name) > 100 {
		errs["name"] = "too long (max 100)"
	}
	validateEmail(errs, "email", r.Email)
	validatePassword(errs, "password", r.Password)
	if r.Role != "" && r.Role != "user" {
		errs["role"] = "only the user role can be self-registered"
	}

	return nilIfEmpty(errs)
}

// Validate checks the login payload. Password length is not enforced here so
// a short wrong password is reported as bad credentials.
func (r LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	if r.Password == "" {
		errs["password"] = requiredReason
	}
	return nilIfEmpty(errs)
}

// Validate checks the refresh payload.
func (r RefreshRequest) Validate() map[string]string {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return map[string]string{"refreshToken": requiredReason}
	}
	return nil
}

// Validate checks the reset link payload.
func (r ResetLinkRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	return nilIfEmpty(errs)
}

// Validate checks the reset consumption payload.
func (r ForgotPasswordRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	validatePassword(errs, "newPassword", r.NewPassword)
	if strings.TrimSpace(r.Token) == "" {
		errs["token"] = requiredReason
	}
	return nilIfEmpty(errs)
}

// Validate checks the change password payload.
func (r ChangePasswordRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	validatePassword(errs, "newPassword", r.NewPassword)
	return nilIfEmpty(errs)
}

// Validate checks a profile update. At least one field must be set.
func (r UpdateAccountRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Name == nil && r.Contact == nil && r.ProfileImage == nil && r.Address == nil {
		errs["body"] = "at least one field is required"
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errs["name"] = "must not be empty"
	}
	return nilIfEmpty(errs)
}

func validateEmail(errs map[string]string, field, email string) {
	if email == "" {
		errs[field] = "email is required"
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		errs[field] = "invalid email address"
	}
}

func validatePassword(errs map[string]string, field, pw string) {
	switch {
	case pw == "":
		errs[field] = requiredReason
	case len(pw) < minPasswordLen:
		errs[field] = "must be at least 6 characters long"
	case len(pw) > maxPasswordBytes:
		errs[field] = "too long (max 72 bytes)"
	}
}

func nilIfEmpty(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
