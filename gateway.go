package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/climapredict/go-auth/middleware/gateware"
)

// NewGateway assembles the edge middleware from the shared classifier and
// token codec. Handlers behind it re-derive the subject from the same codec,
// so the edge layer and the handlers cannot drift on verification logic.
func NewGateway(classifier *PathClassifier, tokens TokenService, cfg Config) fiber.Handler {
	gw := gateware.Config{
		IsPublic:  classifier.IsPublic,
		Validator: sessionValidatorAdapter{tokens: tokens},
	}

	if cfg != nil {
		gw.CookieName = cfg.GetCookieName()
		gw.LoginPath = cfg.GetLoginPath()
		gw.RedirectParam = cfg.GetRedirectParam()
		gw.StaticPrefixes = cfg.GetStaticPrefixes()
		gw.SecureCookies = cfg.GetSecureCookies()
	}

	return gateware.New(gw)
}

// sessionValidatorAdapter bridges the package's claims type to the
// middleware's mirrored interface.
type sessionValidatorAdapter struct {
	tokens TokenService
}

func (s sessionValidatorAdapter) ValidateSession(raw string) (gateware.AuthClaims, error) {
	claims, err := s.tokens.ValidateSession(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
