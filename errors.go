package auth

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeMissingCredentials = "auth_missing_credentials"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeTokenMalformed     = "auth_token_malformed"
	TextCodeResetTokenInvalid  = "auth_reset_token_invalid"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found")

// ErrUnableToFindSession is the error when our request has no cookie
var ErrUnableToFindSession = errors.New("unable to find session")

// ErrUnableToDecodeSession unable to decode JWT from session cookie
var ErrUnableToDecodeSession = errors.New("unable to decode session")

// ErrNoEmptyString is returned when a required string input is empty
var ErrNoEmptyString = errors.New("value must be a non empty string")

// ErrMismatchedHashAndPassword wraps the bcrypt mismatch error
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password")

// ErrMissingCredentials is returned before any store access when the login
// payload lacks an email or a password.
var ErrMissingCredentials = goerrors.New("email and password are required", goerrors.CategoryBadInput).
	WithTextCode(TextCodeMissingCredentials).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidCredentials merges "no such user" and "wrong password" so the
// response never reveals whether an account exists.
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a token signature verifies but the token
// is past its expiry.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers structural, signature, and purpose failures.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidResetToken merges malformed, expired, and bad-signature reset
// tokens into a single undifferentiated rejection.
var ErrInvalidResetToken = goerrors.New("invalid or expired token", goerrors.CategoryBadInput).
	WithTextCode(TextCodeResetTokenInvalid).
	WithCode(goerrors.CodeBadRequest)

// IsInvalidCredentialsError reports whether err is the merged bad-login error
func IsInvalidCredentialsError(err error) bool {
	return hasTextCode(err, TextCodeInvalidCredentials)
}

// IsMissingCredentialsError reports whether err is the empty-field rejection
func IsMissingCredentialsError(err error) bool {
	return hasTextCode(err, TextCodeMissingCredentials)
}

// IsInvalidResetTokenError reports whether err is the merged reset rejection
func IsInvalidResetTokenError(err error) bool {
	return hasTextCode(err, TextCodeResetTokenInvalid)
}

func hasTextCode(err error, textCode string) bool {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == textCode
	}
	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
