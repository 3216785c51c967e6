package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	auth "github.com/climapredict/go-auth"
)

// stubIdentity is a plain Identity value for tests that don't care about
// call assertions.
type stubIdentity struct {
	id    string
	email string
	name  string
}

func (s stubIdentity) ID() string    { return s.id }
func (s stubIdentity) Email() string { return s.email }
func (s stubIdentity) Name() string  { return s.name }

// MockIdentityProvider implements auth.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (auth.Identity, error) {
	args := m.Called(ctx, email, password)
	if identity := args.Get(0); identity != nil {
		return identity.(auth.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByEmail(ctx context.Context, email string) (auth.Identity, error) {
	args := m.Called(ctx, email)
	if identity := args.Get(0); identity != nil {
		return identity.(auth.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPasswordUpdater implements auth.PasswordUpdater for testing
type MockPasswordUpdater struct {
	mock.Mock
}

func (m *MockPasswordUpdater) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

// MockResetNotifier implements auth.ResetNotifier for testing
type MockResetNotifier struct {
	mock.Mock
}

func (m *MockResetNotifier) NotifyPasswordReset(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}
