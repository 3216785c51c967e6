package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultSessionTTL is how long a login token stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

// DefaultResetTTL is how long a password reset token stays valid.
const DefaultResetTTL = time.Hour

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	issuer     string
	logger     Logger
	now        func() time.Time
}

// NewTokenService creates a new TokenService instance. The signing key is
// required; there is no fallback secret at this layer.
func NewTokenService(signingKey []byte, issuer string, logger Logger) (*TokenServiceImpl, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("token service requires a signing key", errors.CategoryBadInput)
	}
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		sessionTTL: DefaultSessionTTL,
		resetTTL:   DefaultResetTTL,
		issuer:     issuer,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// WithSessionTTL overrides the session token lifetime.
func (ts *TokenServiceImpl) WithSessionTTL(ttl time.Duration) *TokenServiceImpl {
	if ttl > 0 {
		ts.sessionTTL = ttl
	}
	return ts
}

// WithResetTTL overrides the reset token lifetime.
func (ts *TokenServiceImpl) WithResetTTL(ttl time.Duration) *TokenServiceImpl {
	if ttl > 0 {
		ts.resetTTL = ttl
	}
	return ts
}

// WithClock overrides the time source. Used by tests to force expiry.
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

// IssueSession creates a session JWT embedding the identity's id and email
func (ts *TokenServiceImpl) IssueSession(identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity is required", errors.CategoryBadInput)
	}
	return ts.issue(identity.ID(), identity.Email(), PurposeSession, ts.sessionTTL)
}

// IssueReset creates a short-lived password reset JWT for the given user
func (ts *TokenServiceImpl) IssueReset(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required", errors.CategoryBadInput)
	}
	return ts.issue(userID, "", PurposeReset, ts.resetTTL)
}

func (ts *TokenServiceImpl) issue(subject, email string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:          subject,
		UserEmail:    email,
		TokenPurpose: purpose,
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims.
// Malformed structure, signature mismatch, and expiry all resolve to typed
// errors; the caller never sees a panic or a raw jwt error.
func (ts *TokenServiceImpl) Validate(raw string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrUnableToDecodeSession
}

// ValidateSession validates a token and requires session purpose. A valid
// reset token replayed against a session path resolves to malformed.
func (ts *TokenServiceImpl) ValidateSession(raw string) (AuthClaims, error) {
	return ts.validatePurpose(raw, PurposeSession)
}

// ValidateReset validates a token and requires reset purpose, so session
// tokens cannot be replayed against the reset-consume endpoint.
func (ts *TokenServiceImpl) ValidateReset(raw string) (AuthClaims, error) {
	return ts.validatePurpose(raw, PurposeReset)
}

func (ts *TokenServiceImpl) validatePurpose(raw string, purpose TokenPurpose) (AuthClaims, error) {
	claims, err := ts.Validate(raw)
	if err != nil {
		return nil, err
	}

	if claims.Purpose() != purpose {
		ts.logger.Warn("TokenService rejected token with mismatched purpose",
			"want", string(purpose), "got", string(claims.Purpose()))
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

var _ TokenService = (*TokenServiceImpl)(nil)
