package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor used for new hashes.
const PasswordHashCost = 12

// HashPassword derives a bcrypt hash of password at PasswordHashCost.
// Stored hashes carry their own cost, so raising the constant only affects
// new passwords.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(h), err
}

// ComparePasswordAndHash checks a cleartext password against a stored hash,
// mapping the bcrypt mismatch into the package sentinel.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// RandomPasswordHash returns the hash of a throwaway random password, for
// account rows that must carry a hash nobody can log in with.
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}
