package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/climapredict/go-auth"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestUsers(t *testing.T) *auth.Users {
	t.Helper()

	repo := auth.NewUsersRepository(newTestDB(t))
	require.NoError(t, repo.CreateTables(context.Background()))
	return repo
}

func TestUsers_RegisterAndGetByEmail(t *testing.T) {
	repo := newTestUsers(t)
	ctx := context.Background()

	created, err := repo.Register(ctx, "Farmer", "  Farmer@Example.COM ", "secret123")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "farmer@example.com", created.UserEmail)
	assert.NotEqual(t, "secret123", created.PasswordHash)

	found, err := repo.GetByEmail(ctx, "FARMER@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestUsers_GetByEmail_NotFound(t *testing.T) {
	repo := newTestUsers(t)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}

func TestUsers_VerifyIdentity(t *testing.T) {
	repo := newTestUsers(t)
	ctx := context.Background()

	user, err := repo.Register(ctx, "Farmer", "farmer@example.com", "secret123")
	require.NoError(t, err)

	t.Run("correct password returns the identity", func(t *testing.T) {
		identity, err := repo.VerifyIdentity(ctx, "farmer@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, "farmer@example.com", identity.Email())
		assert.Equal(t, "Farmer", identity.Name())
	})

	t.Run("wrong password and unknown email fail the same way", func(t *testing.T) {
		_, wrongErr := repo.VerifyIdentity(ctx, "farmer@example.com", "wrong")
		_, unknownErr := repo.VerifyIdentity(ctx, "nobody@example.com", "secret123")

		assert.ErrorIs(t, wrongErr, auth.ErrMismatchedHashAndPassword)
		assert.ErrorIs(t, unknownErr, auth.ErrMismatchedHashAndPassword)
	})
}

func TestUsers_FindIdentityByEmail(t *testing.T) {
	repo := newTestUsers(t)
	ctx := context.Background()

	user, err := repo.Register(ctx, "Farmer", "farmer@example.com", "secret123")
	require.NoError(t, err)

	identity, err := repo.FindIdentityByEmail(ctx, "farmer@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), identity.ID())

	_, err = repo.FindIdentityByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}

func TestUsers_UpdatePasswordHash(t *testing.T) {
	repo := newTestUsers(t)
	ctx := context.Background()

	user, err := repo.Register(ctx, "Farmer", "farmer@example.com", "old-password")
	require.NoError(t, err)

	hash, err := auth.HashPassword("new-password")
	require.NoError(t, err)
	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID.String(), hash))

	_, err = repo.VerifyIdentity(ctx, "farmer@example.com", "old-password")
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)

	_, err = repo.VerifyIdentity(ctx, "farmer@example.com", "new-password")
	assert.NoError(t, err)
}

func TestUsers_UpdatePasswordHash_BadInput(t *testing.T) {
	repo := newTestUsers(t)
	ctx := context.Background()

	err := repo.UpdatePasswordHash(ctx, uuid.NewString(), "some-hash")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)

	err = repo.UpdatePasswordHash(ctx, "not-a-uuid", "some-hash")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrIdentityNotFound)
}
