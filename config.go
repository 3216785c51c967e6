package auth

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/ilyakaznacheev/cleanenv"
)

// insecureFallbackSecret keeps dev setups working without configuration.
// Validate refuses to fall back to it in production.
const insecureFallbackSecret = "fallback-secret"

// EnvConfig is the process configuration, sourced from the environment. It
// implements the Config interface consumed by the constructors.
type EnvConfig struct {
	Environment    string        `env:"APP_ENV" env-default:"development"`
	SigningKey     string        `env:"JWT_SECRET"`
	SigningMethod  string        `env:"JWT_SIGNING_METHOD" env-default:"HS256"`
	Issuer         string        `env:"JWT_ISSUER" env-default:"climapredict"`
	CookieName     string        `env:"AUTH_COOKIE_NAME" env-default:"auth_token"`
	SessionTTL     time.Duration `env:"AUTH_SESSION_TTL" env-default:"168h"`
	ResetTTL       time.Duration `env:"AUTH_RESET_TTL" env-default:"1h"`
	LoginPath      string        `env:"AUTH_LOGIN_PATH" env-default:"/auth/login"`
	RedirectParam  string        `env:"AUTH_REDIRECT_PARAM" env-default:"redirect"`
	StaticPrefixes []string      `env:"AUTH_STATIC_PREFIXES" env-default:"/_next,/static" env-separator:","`

	usingFallbackSecret bool
}

// NewConfigFromEnv loads and validates the configuration. In production a
// missing JWT_SECRET is a startup error, never a silent fallback.
func NewConfigFromEnv() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to read configuration from environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the signing secret policy.
func (c *EnvConfig) Validate() error {
	if c.SigningKey == "" {
		if c.IsProduction() {
			return goerrors.New("JWT_SECRET must be set in production", goerrors.CategoryBadInput)
		}
		c.SigningKey = insecureFallbackSecret
		c.usingFallbackSecret = true
	}
	return nil
}

// IsProduction reports whether the process runs with production hardening.
func (c *EnvConfig) IsProduction() bool {
	return c.Environment == "production"
}

// UsingFallbackSecret reports whether the insecure dev secret is in use, so
// the caller can log a loud warning.
func (c *EnvConfig) UsingFallbackSecret() bool {
	return c.usingFallbackSecret
}

func (c *EnvConfig) GetSigningKey() string                  { return c.SigningKey }
func (c *EnvConfig) GetSigningMethod() string               { return c.SigningMethod }
func (c *EnvConfig) GetCookieName() string                  { return c.CookieName }
func (c *EnvConfig) GetTokenExpiration() time.Duration      { return c.SessionTTL }
func (c *EnvConfig) GetResetTokenExpiration() time.Duration { return c.ResetTTL }
func (c *EnvConfig) GetIssuer() string                      { return c.Issuer }
func (c *EnvConfig) GetLoginPath() string                   { return c.LoginPath }
func (c *EnvConfig) GetRedirectParam() string               { return c.RedirectParam }
func (c *EnvConfig) GetStaticPrefixes() []string            { return c.StaticPrefixes }
func (c *EnvConfig) GetSecureCookies() bool                 { return c.IsProduction() }

var _ Config = (*EnvConfig)(nil)
