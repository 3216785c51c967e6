package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose discriminates the two token families issued by the codec.
type TokenPurpose string

const (
	// PurposeSession marks a long-lived login token.
	PurposeSession TokenPurpose = "session"
	// PurposeReset marks a single-purpose password reset token.
	PurposeReset TokenPurpose = "password_reset"
)

// AuthClaims represents structured JWT claims extracted from a verified token
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Purpose() TokenPurpose
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID          string       `json:"uid,omitempty"`
	UserEmail    string       `json:"email,omitempty"`
	TokenPurpose TokenPurpose `json:"purpose,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the email claim. Reset tokens carry no email.
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// Purpose returns the purpose tag. Tokens minted before the tag existed
// default to session scope.
func (c *JWTClaims) Purpose() TokenPurpose {
	if c.TokenPurpose == "" {
		return PurposeSession
	}
	return c.TokenPurpose
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
