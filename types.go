package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Email() string
	Name() string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, Identity, error)
}

// TokenService issues and validates signed tokens
type TokenService interface {
	IssueSession(identity Identity) (string, error)
	IssueReset(userID string) (string, error)
	Validate(raw string) (AuthClaims, error)
	ValidateSession(raw string) (AuthClaims, error)
	ValidateReset(raw string) (AuthClaims, error)
}

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(raw string) (AuthClaims, error)
}

// IdentityProvider ensure we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, email, password string) (Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (Identity, error)
}

// PasswordUpdater writes a new password hash to the identity store. The
// reset flow is the only caller.
type PasswordUpdater interface {
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}

// ResetNotifier delivers a reset token out-of-band, typically by email.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, email, token string) error
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetCookieName() string
	GetTokenExpiration() time.Duration
	GetResetTokenExpiration() time.Duration
	GetIssuer() string
	GetLoginPath() string
	GetRedirectParam() string
	GetStaticPrefixes() []string
	GetSecureCookies() bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
