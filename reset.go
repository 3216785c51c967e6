package auth

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// PasswordReset implements the two halves of the reset flow: issuing a
// short-lived reset token for an email, and consuming a reset token to write
// a new password hash.
//
// Consuming the same valid token twice succeeds twice; tokens are not
// invalidated after use and expire passively at their TTL.
type PasswordReset struct {
	provider IdentityProvider
	updater  PasswordUpdater
	tokens   TokenService
	notifier ResetNotifier
	logger   Logger
}

// NewPasswordReset wires the reset flow. The provider looks up accounts, the
// updater writes the new hash, the codec issues and verifies reset tokens.
func NewPasswordReset(provider IdentityProvider, updater PasswordUpdater, tokens TokenService) *PasswordReset {
	return &PasswordReset{
		provider: provider,
		updater:  updater,
		tokens:   tokens,
		notifier: logNotifier{logger: defLogger{}},
		logger:   defLogger{},
	}
}

// WithNotifier sets the out-of-band delivery mechanism for reset tokens.
func (pr *PasswordReset) WithNotifier(notifier ResetNotifier) *PasswordReset {
	if notifier != nil {
		pr.notifier = notifier
	}
	return pr
}

func (pr *PasswordReset) WithLogger(logger Logger) *PasswordReset {
	if logger != nil {
		pr.logger = logger
	}
	return pr
}

// Request issues a reset token for the account registered under email and
// hands it to the notifier. Unknown emails succeed outwardly so the endpoint
// never reveals whether an account exists.
func (pr *PasswordReset) Request(ctx context.Context, email string) error {
	if email == "" {
		return goerrors.New("email is required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	identity, err := pr.provider.FindIdentityByEmail(ctx, email)
	if err != nil {
		// only account absence is hidden behind the uniform success; a
		// failing store still surfaces
		if goerrors.Is(err, ErrIdentityNotFound) {
			pr.logger.Info("Password reset requested for unknown email", "email", email)
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
	}

	token, err := pr.tokens.IssueReset(identity.ID())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue reset token")
	}

	if err := pr.notifier.NotifyPasswordReset(ctx, email, token); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to deliver reset notification")
	}

	return nil
}

// Consume verifies a reset token and writes the bcrypt hash of newPassword
// to the store. Malformed, expired, tampered, and wrong-purpose tokens all
// collapse into ErrInvalidResetToken.
func (pr *PasswordReset) Consume(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" || newPassword == "" {
		return goerrors.New("token and new password are required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	claims, err := pr.tokens.ValidateReset(rawToken)
	if err != nil {
		pr.logger.Info("Password reset consume rejected token", "error", err)
		return ErrInvalidResetToken
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	if err := pr.updater.UpdatePasswordHash(ctx, claims.Subject(), passwordHash); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password")
	}

	return nil
}

// logNotifier is the default delivery mechanism: it prints the reset link
// material instead of sending an email. Replace it in anything but dev.
type logNotifier struct {
	logger Logger
}

func (n logNotifier) NotifyPasswordReset(_ context.Context, email, token string) error {
	n.logger.Info("====== SENDING EMAIL NOTIFICATION =======")
	n.logger.Info(fmt.Sprintf("to: %s", email))
	n.logger.Info(fmt.Sprintf("link: /auth/reset-password?token=%s", token))
	return nil
}
