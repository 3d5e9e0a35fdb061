package accounts

import (
	stderrors "errors"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeEmailInUse flags an email uniqueness conflict
	TextCodeEmailInUse = "EMAIL_IN_USE"
	// TextCodeUsernameInUse flags a username uniqueness conflict
	TextCodeUsernameInUse = "USERNAME_IN_USE"
	// TextCodeConfirmationNotFound flags a missing confirmation key
	TextCodeConfirmationNotFound = "CONFIRMATION_NOT_FOUND"
	// TextCodeAccountNotFound flags a missing account
	TextCodeAccountNotFound = "ACCOUNT_NOT_FOUND"
	// TextCodeConfirmationExpired flags a confirmation past its TTL
	TextCodeConfirmationExpired = "CONFIRMATION_EXPIRED"
)

// ErrMismatchedHashAndPassword is returned when a password does not match
// the stored credential hash
var ErrMismatchedHashAndPassword = stderrors.New("mismatched hash and password")

// ErrNoEmptyString is returned when an empty password is hashed
var ErrNoEmptyString = stderrors.New("password should not be an empty string")

// ErrUnableToDecodeSession unable to decode claims from a signed token
var ErrUnableToDecodeSession = stderrors.New("unable to decode session")

// ErrTokenExpired is returned when a session token is past its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a session token cannot be parsed or its
// signature does not verify.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrNotAuthenticated is returned by Login when credentials do not resolve
// to a confirmed account.
var ErrNotAuthenticated = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// NewConflictError builds the uniqueness violation error for the given
// property ("email" or "username"). Callers can recover by choosing a
// different value.
func NewConflictError(property string) *errors.Error {
	message := "email already in use"
	textCode := TextCodeEmailInUse
	if property == "username" {
		message = "username already in use"
		textCode = TextCodeUsernameInUse
	}

	return errors.New(message, errors.CategoryConflict).
		WithTextCode(textCode).
		WithCode(errors.CodeConflict).
		WithMetadata(map[string]any{"property": property})
}

// NewAccountNotFound builds the error for a missing account.
func NewAccountNotFound(email string) *errors.Error {
	return errors.New("account does not exist", errors.CategoryNotFound).
		WithTextCode(TextCodeAccountNotFound).
		WithCode(errors.CodeNotFound).
		WithMetadata(map[string]any{"email": email})
}

// NewConfirmationNotFound builds the error for a missing confirmation key.
func NewConfirmationNotFound() *errors.Error {
	return errors.New("confirmation does not exist", errors.CategoryNotFound).
		WithTextCode(TextCodeConfirmationNotFound).
		WithCode(errors.CodeNotFound)
}

// NewConfirmationExpired builds the error for a confirmation past its TTL.
// The stored record is left in place when this is observed.
func NewConfirmationExpired() *errors.Error {
	return errors.New("confirmation is expired", errors.CategoryOperation).
		WithTextCode(TextCodeConfirmationExpired)
}

// IsConflict will check for uniqueness violations
func IsConflict(err error) bool {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Category == errors.CategoryConflict
	}
	return false
}

// ConflictProperty returns the colliding property of a conflict error, or
// an empty string when err is not a conflict.
func ConflictProperty(err error) string {
	var richErr *errors.Error
	if !errors.As(err, &richErr) || richErr.Category != errors.CategoryConflict {
		return ""
	}
	if property, ok := richErr.Metadata["property"].(string); ok {
		return property
	}
	return ""
}

// IsExpired will check for expired confirmations
func IsExpired(err error) bool {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeConfirmationExpired
	}
	return false
}
