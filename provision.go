package authsvc

import (
	"context"

	"github.com/goliatone/go-errors"
)

// EnsureAdmin is the explicit, idempotent admin provisioning step. It is
// driven by external configuration: when email is empty it does nothing, and
// when the account already exists it is left untouched, whatever its current
// role or status.
func EnsureAdmin(ctx context.Context, users Users, email, password string, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	if email == "" {
		return nil
	}

	if password == "" {
		return errors.New("admin bootstrap requires a password", errors.CategoryBadInput).
			WithTextCode("INCOMPLETE_ADMIN_BOOTSTRAP")
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		logger.Debug("admin account already provisioned", "email", email)
		return nil
	} else if !errors.IsNotFound(err) {
		return errors.Wrap(err, errors.CategoryInternal, "admin bootstrap lookup failed")
	}

	admin := &User{
		Email:  email,
		Role:   RoleAdmin,
		Status: StatusActive,
	}

	if _, err := users.Create(ctx, admin, password); err != nil {
		// A concurrent replica may have won the race; that still counts as
		// provisioned.
		if errors.Is(err, ErrEmailTaken) {
			return nil
		}
		return errors.Wrap(err, errors.CategoryInternal, "admin bootstrap insert failed")
	}

	logger.Info("admin account provisioned", "email", email)
	return nil
}
