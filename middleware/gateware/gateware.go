// Package gateware is the per-request authorization gateway: every inbound
// request passes through it before reaching a handler. Static assets and
// public paths are forwarded untouched; protected paths require a valid
// session token from the auth cookie or an Authorization: Bearer header.
// Unauthorized navigation redirects to the login page carrying the original
// path, and a stale cookie is cleared before redirecting so it is not
// re-verified on every subsequent request.
package gateware

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrTokenMissing is resolved when a protected path carries no token at all.
var ErrTokenMissing = errors.New("missing or malformed JWT")

// AuthClaims mirrors the claims interface from the auth package without
// creating an import cycle.
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Expires() time.Time
	IssuedAt() time.Time
}

// TokenValidator mirrors the session-validation method of the auth codec.
// The same codec instance must back both this middleware and the route
// handlers; duplicated verification logic is how edge and handler layers
// drift apart.
type TokenValidator interface {
	ValidateSession(raw string) (AuthClaims, error)
}

// Decision is the three-state outcome of gating one request.
type Decision int

const (
	// DecisionAllow forwards the request unchanged.
	DecisionAllow Decision = iota
	// DecisionRedirect sends the caller to the login page with the original
	// path preserved.
	DecisionRedirect
	// DecisionClearAndRedirect additionally deletes the session cookie
	// before redirecting.
	DecisionClearAndRedirect
)

type Config struct {
	// IsPublic labels a path as reachable without a token. Required.
	IsPublic func(path string) bool
	// Validator verifies extracted tokens. Required.
	Validator TokenValidator
	// CookieName is the session cookie. Defaults to "auth_token".
	CookieName string
	// AuthScheme is the Authorization header scheme. Defaults to "Bearer".
	AuthScheme string
	// LoginPath is the redirect target. Defaults to "/auth/login".
	LoginPath string
	// RedirectParam carries the original path. Defaults to "redirect".
	RedirectParam string
	// StaticPrefixes bypass gating entirely, before classification runs.
	// Defaults to "/_next" and "/static".
	StaticPrefixes []string
	// ContextKey is where validated claims are stored in ctx locals.
	// Defaults to "user".
	ContextKey string
	// SecureCookies marks the cleared cookie Secure.
	SecureCookies bool
	// OnDecision observes the outcome for each gated request. Optional.
	OnDecision func(c *fiber.Ctx, d Decision)
}

// New builds the gateway middleware.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		path := c.Path()

		for _, prefix := range cfg.StaticPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		if cfg.IsPublic(path) {
			return c.Next()
		}

		raw := extractToken(c, cfg.CookieName, cfg.AuthScheme)
		if raw == "" {
			cfg.notify(c, DecisionRedirect)
			return redirectToLogin(c, cfg, path)
		}

		claims, err := cfg.Validator.ValidateSession(raw)
		if err != nil {
			cfg.notify(c, DecisionClearAndRedirect)
			clearCookie(c, cfg)
			return redirectToLogin(c, cfg, path)
		}

		c.Locals(cfg.ContextKey, claims)
		cfg.notify(c, DecisionAllow)
		return c.Next()
	}
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.IsPublic == nil {
		panic("AUTH: gateway middleware configuration: IsPublic classifier is required.")
	}
	if cfg.Validator == nil {
		panic("AUTH: gateway middleware configuration: Validator is required.")
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "auth_token"
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/auth/login"
	}
	if cfg.RedirectParam == "" {
		cfg.RedirectParam = "redirect"
	}
	if cfg.StaticPrefixes == nil {
		cfg.StaticPrefixes = []string{"/_next", "/static"}
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	return cfg
}

func (cfg Config) notify(c *fiber.Ctx, d Decision) {
	if cfg.OnDecision != nil {
		cfg.OnDecision(c, d)
	}
}

// redirectToLogin answers navigation requests with a redirect carrying the
// original path, and API callers that only accept JSON with a 401 body.
func redirectToLogin(c *fiber.Ctx, cfg Config, originalPath string) error {
	if wantsJSON(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	target := cfg.LoginPath + "?" + cfg.RedirectParam + "=" + url.QueryEscape(originalPath)

	status := fiber.StatusSeeOther
	if c.Method() == fiber.MethodGet {
		status = fiber.StatusFound
	}
	return c.Redirect(target, status)
}

func wantsJSON(c *fiber.Ctx) bool {
	accept := c.Get(fiber.HeaderAccept)
	return strings.Contains(accept, fiber.MIMEApplicationJSON) &&
		!strings.Contains(accept, fiber.MIMETextHTML)
}

func clearCookie(c *fiber.Ctx, cfg Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * 24 * 365),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func extractToken(c *fiber.Ctx, cookieName, authScheme string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}

	header := c.Get(fiber.HeaderAuthorization)
	l := len(authScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		return strings.TrimSpace(header[l:])
	}

	return ""
}
