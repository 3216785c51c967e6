package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultCookieName is the session cookie carrying the signed token.
const DefaultCookieName = "auth_token"

// DefaultLoginPath is where unauthorized navigation gets redirected.
const DefaultLoginPath = "/auth/login"

// DefaultRedirectParam carries the original path through the login redirect.
const DefaultRedirectParam = "redirect"

// RouteAuthenticator owns the session cookie contract shared by the login
// endpoint, the logout endpoint, and the gateway's clear-and-redirect path.
// Keeping one implementation avoids the cookie and verification logic
// drifting between the edge layer and the route handlers.
type RouteAuthenticator struct {
	auth           Authenticator
	cookieName     string
	cookieDuration time.Duration
	secureCookies  bool
	Logger         Logger
}

// NewHTTPAuthenticator wires cookie handling around an Authenticator. The
// cookie lifetime matches the session token TTL.
func NewHTTPAuthenticator(auther Authenticator, cfg Config) *RouteAuthenticator {
	cookieName := DefaultCookieName
	if cfg != nil && cfg.GetCookieName() != "" {
		cookieName = cfg.GetCookieName()
	}

	cookieDuration := DefaultSessionTTL
	if cfg != nil && cfg.GetTokenExpiration() > 0 {
		cookieDuration = cfg.GetTokenExpiration()
	}

	secure := false
	if cfg != nil {
		secure = cfg.GetSecureCookies()
	}

	return &RouteAuthenticator{
		auth:           auther,
		cookieName:     cookieName,
		cookieDuration: cookieDuration,
		secureCookies:  secure,
		Logger:         defLogger{},
	}
}

func (a *RouteAuthenticator) CookieName() string {
	return a.cookieName
}

func (a *RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// Login runs the credential check and, on success, sets the session cookie.
// The token and identity are returned so the handler can shape the JSON body.
func (a *RouteAuthenticator) Login(c *fiber.Ctx, email, password string) (string, Identity, error) {
	token, identity, err := a.auth.Login(c.UserContext(), email, password)
	if err != nil {
		return "", nil, err
	}

	a.SetSessionCookie(c, token)
	return token, identity, nil
}

// Logout clears the session cookie. With stateless tokens there is nothing
// server-side to tear down.
func (a *RouteAuthenticator) Logout(c *fiber.Ctx) {
	a.ClearSessionCookie(c)
}

// SetSessionCookie writes the auth cookie: HttpOnly, SameSite=Strict,
// site-wide, Secure in production, lifetime matching the token TTL.
func (a *RouteAuthenticator) SetSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(a.cookieDuration),
		MaxAge:   int(a.cookieDuration.Seconds()),
		HTTPOnly: true,
		Secure:   a.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSessionCookie expires the auth cookie so a stale token is not
// re-verified on every subsequent request.
func (a *RouteAuthenticator) ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * 24 * 365),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   a.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// RenderError normalizes any error into the JSON error contract: rich
// errors keep their status code, everything else becomes a generic 500 with
// the detail logged, never surfaced.
func (a *RouteAuthenticator) RenderError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Code >= fiber.StatusBadRequest && richErr.Code < 600 {
		return c.Status(richErr.Code).JSON(fiber.Map{
			"error": richErr.Message,
		})
	}

	a.Logger.Error("Unhandled error at endpoint boundary", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
