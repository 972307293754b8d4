package authsvc

import (
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// ErrNoEmptyString rejects hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the single failure a password comparison
// surfaces, whatever actually went wrong underneath.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// HashPassword will generate a salted password hash. The salt is random per
// call, so hashing the same input twice yields different digests.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. A malformed stored hash is reported the same way as a
// mismatch, never as a distinct error or a panic.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// PasswordMatches is the boolean form of ComparePasswordAndHash.
func PasswordMatches(password, hash string) bool {
	return ComparePasswordAndHash(password, hash) == nil
}
