package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ExtractRawToken reads the session token from the named cookie, falling
// back to an Authorization: Bearer header for API-style callers.
func ExtractRawToken(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}

	header := c.Get(fiber.HeaderAuthorization)
	const scheme = "Bearer"
	if len(header) > len(scheme)+1 && strings.EqualFold(header[:len(scheme)], scheme) {
		return strings.TrimSpace(header[len(scheme):])
	}

	return ""
}

// GuestResolver resolves the acting subject for endpoints that must not
// hard-fail when no valid token is present. It deliberately diverges from
// the gateway's strict policy: it only runs on paths the classifier already
// marked public, and the handler decides how much personalization to offer.
type GuestResolver struct {
	tokens     TokenValidator
	cookieName string
}

// NewGuestResolver builds a resolver around the shared token codec.
func NewGuestResolver(tokens TokenValidator, cookieName string) *GuestResolver {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &GuestResolver{tokens: tokens, cookieName: cookieName}
}

// ResolveSubject returns the verified user ID, or ok=false for a guest.
// Absent, malformed, and expired tokens all resolve to guest; the resolver
// never returns an error.
func (g *GuestResolver) ResolveSubject(c *fiber.Ctx) (string, bool) {
	raw := ExtractRawToken(c, g.cookieName)
	if raw == "" {
		return "", false
	}

	claims, err := g.tokens.Validate(raw)
	if err != nil {
		return "", false
	}

	if claims.Purpose() != PurposeSession {
		return "", false
	}

	return claims.UserID(), true
}
