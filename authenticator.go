package auth

import (
	"context"
	"reflect"

	goerrors "github.com/goliatone/go-errors"
)

// Auther validates credentials against an IdentityProvider and issues
// session tokens on success.
type Auther struct {
	provider IdentityProvider
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, tokens TokenService) *Auther {
	return &Auther{
		provider: provider,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login checks the submitted credentials and returns a session token plus
// the matched identity. Empty inputs short-circuit before the store is
// consulted; unknown email and wrong password collapse into the same error.
// Store failures are not part of that merge and propagate as internal errors.
func (s *Auther) Login(ctx context.Context, email, password string) (string, Identity, error) {
	if email == "" || password == "" {
		return "", nil, ErrMissingCredentials
	}

	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) || goerrors.Is(err, ErrMismatchedHashAndPassword) {
			s.logger.Info("Login rejected", "email", email, "error", err)
			return "", nil, ErrInvalidCredentials
		}
		s.logger.Error("Login identity lookup failed", "error", err)
		return "", nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to verify credentials")
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueSession(identity)
	if err != nil {
		s.logger.Error("Login failed to issue session token", "error", err)
		return "", nil, err
	}

	return token, identity, nil
}

var _ Authenticator = (*Auther)(nil)
