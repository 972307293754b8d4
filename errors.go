package authsvc

import (
	"github.com/goliatone/go-errors"
)

// User-facing messages stay deliberately generic; operator diagnostics live
// in the metadata and logs, never in the response body.

// ErrNotAuthenticated is returned when the expected cookie carries no token.
var ErrNotAuthenticated = errors.New("not authenticated, please log in", errors.CategoryAuth).
	WithTextCode("NOT_AUTHENTICATED").
	WithCode(errors.CodeUnauthorized)

// ErrInvalidToken is returned when signature verification fails.
var ErrInvalidToken = errors.New("not authenticated, please log in", errors.CategoryAuth).
	WithTextCode("INVALID_TOKEN").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when the exp claim is absent or in the past.
var ErrTokenExpired = errors.New("session expired, please log in", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers structural failures: undecodable payloads, a
// missing or unparseable subject, or a token-type claim that does not match
// the cookie slot it arrived in.
var ErrTokenMalformed = errors.New("not authenticated, please log in", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound is returned when a valid token resolves to an account that
// no longer exists.
var ErrUserNotFound = errors.New("not authenticated, please log in", errors.CategoryAuth).
	WithTextCode("USER_NOT_FOUND").
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials collapses "no such user" and "wrong password" so the
// login surface leaks nothing about which check failed.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrAccountInactive is returned when a banned or deleted account presents
// valid credentials. Same status code as a credential mismatch.
var ErrAccountInactive = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode("ACCOUNT_INACTIVE").
	WithCode(errors.CodeUnauthorized)

// ErrInsufficientPrivileges is the authorization failure for role checks.
var ErrInsufficientPrivileges = errors.New("insufficient privileges", errors.CategoryAuthz).
	WithTextCode("INSUFFICIENT_PRIVILEGES").
	WithCode(errors.CodeForbidden)

// ErrSelfBan rejects an admin setting their own status to banned.
var ErrSelfBan = errors.New("cannot ban yourself", errors.CategoryAuthz).
	WithTextCode("SELF_BAN").
	WithCode(errors.CodeForbidden)

// ErrEmailTaken is the duplicate-email conflict on register and update.
var ErrEmailTaken = errors.New("email is already registered", errors.CategoryConflict).
	WithTextCode("EMAIL_TAKEN").
	WithCode(errors.CodeConflict)

// ErrUserMissing is the repository-level miss. Unlike ErrUserNotFound it maps
// to 404: it is what admin lookups of arbitrary ids surface.
var ErrUserMissing = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode("USER_MISSING").
	WithCode(errors.CodeNotFound)

// IsAuthError reports whether err belongs to the authentication or
// authorization categories.
func IsAuthError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth || richErr.Category == errors.CategoryAuthz
}
