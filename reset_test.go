package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/climapredict/go-auth"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordReset_Request(t *testing.T) {
	tokens := newTestTokenService(t, "test-signing-key")
	identity := stubIdentity{id: "user-123", email: "farmer@example.com"}

	t.Run("issues and delivers a reset token", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("FindIdentityByEmail", mock.Anything, "farmer@example.com").
			Return(identity, nil)

		notifier := &MockResetNotifier{}
		var delivered string
		notifier.On("NotifyPasswordReset", mock.Anything, "farmer@example.com", mock.Anything).
			Run(func(args mock.Arguments) {
				delivered = args.String(2)
			}).
			Return(nil)

		flow := auth.NewPasswordReset(provider, &MockPasswordUpdater{}, tokens).
			WithNotifier(notifier)

		err := flow.Request(context.Background(), "farmer@example.com")
		require.NoError(t, err)

		claims, err := tokens.ValidateReset(delivered)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject())

		provider.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("unknown email succeeds without notification", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("FindIdentityByEmail", mock.Anything, "nobody@example.com").
			Return(nil, auth.ErrIdentityNotFound)

		notifier := &MockResetNotifier{}

		flow := auth.NewPasswordReset(provider, &MockPasswordUpdater{}, tokens).
			WithNotifier(notifier)

		err := flow.Request(context.Background(), "nobody@example.com")
		assert.NoError(t, err)

		notifier.AssertNotCalled(t, "NotifyPasswordReset", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty email is a bad request", func(t *testing.T) {
		flow := auth.NewPasswordReset(&MockIdentityProvider{}, &MockPasswordUpdater{}, tokens)
		err := flow.Request(context.Background(), "")
		assert.Error(t, err)
	})

	t.Run("store failure propagates instead of posing as an unknown email", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("FindIdentityByEmail", mock.Anything, "farmer@example.com").
			Return(nil, goerrors.New("database connection refused", goerrors.CategoryInternal))

		notifier := &MockResetNotifier{}

		flow := auth.NewPasswordReset(provider, &MockPasswordUpdater{}, tokens).
			WithNotifier(notifier)

		err := flow.Request(context.Background(), "farmer@example.com")
		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryInternal, richErr.Category)

		notifier.AssertNotCalled(t, "NotifyPasswordReset", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPasswordReset_Consume(t *testing.T) {
	tokens := newTestTokenService(t, "test-signing-key")

	t.Run("writes a bcrypt hash for the token subject", func(t *testing.T) {
		resetToken, err := tokens.IssueReset("user-123")
		require.NoError(t, err)

		updater := &MockPasswordUpdater{}
		var written string
		updater.On("UpdatePasswordHash", mock.Anything, "user-123", mock.Anything).
			Run(func(args mock.Arguments) {
				written = args.String(2)
			}).
			Return(nil)

		flow := auth.NewPasswordReset(&MockIdentityProvider{}, updater, tokens)

		err = flow.Consume(context.Background(), resetToken, "new-password-123")
		require.NoError(t, err)

		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(written), []byte("new-password-123")))
		updater.AssertExpectations(t)
	})

	t.Run("tampered token rejected without store access", func(t *testing.T) {
		resetToken, err := tokens.IssueReset("user-123")
		require.NoError(t, err)

		parts := strings.Split(resetToken, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		updater := &MockPasswordUpdater{}
		flow := auth.NewPasswordReset(&MockIdentityProvider{}, updater, tokens)

		err = flow.Consume(context.Background(), tampered, "new-password-123")
		assert.True(t, auth.IsInvalidResetTokenError(err))
		updater.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		issued := time.Now().Add(-2 * time.Hour)
		past := newTestTokenService(t, "test-signing-key").WithClock(func() time.Time { return issued })
		resetToken, err := past.IssueReset("user-123")
		require.NoError(t, err)

		flow := auth.NewPasswordReset(&MockIdentityProvider{}, &MockPasswordUpdater{}, tokens)

		err = flow.Consume(context.Background(), resetToken, "new-password-123")
		assert.True(t, auth.IsInvalidResetTokenError(err))
	})

	t.Run("session token replay rejected", func(t *testing.T) {
		sessionToken, err := tokens.IssueSession(stubIdentity{id: "user-123", email: "farmer@example.com"})
		require.NoError(t, err)

		flow := auth.NewPasswordReset(&MockIdentityProvider{}, &MockPasswordUpdater{}, tokens)

		err = flow.Consume(context.Background(), sessionToken, "new-password-123")
		assert.True(t, auth.IsInvalidResetTokenError(err))
	})

	t.Run("consuming the same valid token twice succeeds twice", func(t *testing.T) {
		resetToken, err := tokens.IssueReset("user-123")
		require.NoError(t, err)

		updater := &MockPasswordUpdater{}
		updater.On("UpdatePasswordHash", mock.Anything, "user-123", mock.Anything).
			Return(nil).
			Twice()

		flow := auth.NewPasswordReset(&MockIdentityProvider{}, updater, tokens)

		require.NoError(t, flow.Consume(context.Background(), resetToken, "first-password"))
		require.NoError(t, flow.Consume(context.Background(), resetToken, "second-password"))

		updater.AssertExpectations(t)
	})

	t.Run("missing inputs are a bad request", func(t *testing.T) {
		flow := auth.NewPasswordReset(&MockIdentityProvider{}, &MockPasswordUpdater{}, tokens)

		assert.Error(t, flow.Consume(context.Background(), "", "new-password"))
		assert.Error(t, flow.Consume(context.Background(), "token", ""))
	})
}
