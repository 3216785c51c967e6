package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the reference identity store backed by bun. It implements both
// the read side consulted at login and the single write the reset flow
// performs.
type Users struct {
	db     *bun.DB
	logger Logger
}

// NewUsersRepository wires the store around a bun handle.
func NewUsersRepository(db *bun.DB) *Users {
	return &Users{db: db, logger: defLogger{}}
}

func (r *Users) WithLogger(logger Logger) *Users {
	if logger != nil {
		r.logger = logger
	}
	return r
}

var (
	_ IdentityProvider = (*Users)(nil)
	_ PasswordUpdater  = (*Users)(nil)
)

// CreateTables creates the backing schema. Intended for dev and tests;
// deployments run migrations instead.
func (r *Users) CreateTables(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().Model((*User)(nil)).IfNotExists().Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create users table")
	}
	if _, err := r.db.NewCreateTable().Model((*Chat)(nil)).IfNotExists().Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create chats table")
	}
	return nil
}

// Register inserts a user with a freshly hashed password.
func (r *Users) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
	}

	now := time.Now()
	user := &User{
		ID:           uuid.New(),
		FullName:     name,
		UserEmail:    normalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}

	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to register user")
	}

	return user, nil
}

// GetByEmail retrieves a user record by its unique email.
func (r *Users) GetByEmail(ctx context.Context, email string) (*User, error) {
	user := new(User)
	err := r.db.NewSelect().
		Model(user).
		Where("email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user")
	}
	return user, nil
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Not-found and hash mismatch are indistinguishable to callers.
func (r *Users) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByEmail retrieves an identity without a password check. Used
// by the reset flow's request half.
func (r *Users) FindIdentityByEmail(ctx context.Context, email string) (Identity, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return NewIdentityFromUser(user), nil
}

// UpdatePasswordHash writes a new hash for the given user id.
func (r *Users) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user id")
	}

	res, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
