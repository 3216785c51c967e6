package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
)

// AuthControllerRoutes are the auth endpoint paths. All of them sit under
// the classifier's public /api/auth/ prefix.
type AuthControllerRoutes struct {
	Login          string
	Logout         string
	ForgotPassword string
	ResetPassword  string
}

// AuthController exposes the credential and reset flows as JSON endpoints.
type AuthController struct {
	Logger Logger
	Routes *AuthControllerRoutes
	Auther *RouteAuthenticator
	Resets *PasswordReset
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func NewAuthController(auther *RouteAuthenticator, resets *PasswordReset, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Auther: auther,
		Resets: resets,
		Routes: &AuthControllerRoutes{
			Login:          "/api/auth/login",
			Logout:         "/api/auth/logout",
			ForgotPassword: "/api/auth/forgot-password",
			ResetPassword:  "/api/auth/reset-password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	if c.Resets == nil {
		panic("Missing PasswordReset in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the auth endpoints on the app.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Logout, controller.LogoutPost)
	app.Post(controller.Routes.ForgotPassword, controller.ForgotPasswordPost)
	app.Post(controller.Routes.ResetPassword, controller.ResetPasswordPost)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginPost handles POST /api/auth/login. Missing fields return 400 before
// the store is touched, bad credentials return 401 with an identical body
// for unknown email and wrong password, success returns the token plus the
// minimal public user projection and sets the session cookie.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("Login parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("Login payload rejected", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	token, identity, err := a.Auther.Login(c, payload.Email, payload.Password)
	if err != nil {
		if IsInvalidCredentialsError(err) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}
		return a.Auther.RenderError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"user": fiber.Map{
			"id":    identity.ID(),
			"email": identity.Email(),
			"name":  identity.Name(),
		},
		"token": token,
	})
}

// LogoutPost clears the session cookie.
func (a *AuthController) LogoutPost(c *fiber.Ctx) error {
	a.Auther.Logout(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}

// ForgotPasswordRequest payload
type ForgotPasswordRequest struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
	)
}

// ForgotPasswordPost handles POST /api/auth/forgot-password. The response
// is the same whether or not an account exists.
func (a *AuthController) ForgotPasswordPost(c *fiber.Ctx) error {
	payload := new(ForgotPasswordRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("Forgot password parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("Forgot password payload rejected", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	if err := a.Resets.Request(c.UserContext(), payload.Email); err != nil {
		a.Logger.Error("Forgot password request failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If an account exists with this email, a reset link has been sent.",
	})
}

// ResetPasswordRequest payload
type ResetPasswordRequest struct {
	Token    string `form:"token" json:"token"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// ResetPasswordPost handles POST /api/auth/reset-password. Tampered,
// expired, and replayed session tokens all come back as the same 400.
func (a *AuthController) ResetPasswordPost(c *fiber.Ctx) error {
	payload := new(ResetPasswordRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("Reset password parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Token and new password are required",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("Reset password payload rejected", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Token and new password are required",
		})
	}

	if err := a.Resets.Consume(c.UserContext(), payload.Token, payload.Password); err != nil {
		if IsInvalidResetTokenError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		a.Logger.Error("Reset password failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password reset successful",
	})
}
