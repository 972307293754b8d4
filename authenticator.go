package authsvc

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Authenticator verifies email+password against stored credentials. It has
// no token concerns and no side effects beyond the lookup.
type Authenticator struct {
	users  UserFinder
	logger Logger
}

// NewAuthenticator returns a new Authenticator over the given store.
func NewAuthenticator(users UserFinder) *Authenticator {
	return &Authenticator{
		users:  users,
		logger: defLogger{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Authenticate looks the user up by email and verifies the password.
// "No such user" and "wrong password" collapse into the same
// ErrInvalidCredentials so the caller cannot enumerate accounts. Failures
// are logged at warning level; success is silent at this layer.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			a.logger.Warn("authentication failed: unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "credential lookup failed")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		a.logger.Warn("authentication failed: password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if err := statusAuthError(user.Status); err != nil {
		a.logger.Warn("authentication blocked by account status", "user_id", user.ID, "status", user.Status)
		return nil, err
	}

	return user, nil
}
