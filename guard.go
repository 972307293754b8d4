package authsvc

import (
	"github.com/gofiber/fiber/v2"
)

// Guard layers role and self-action policy on top of the resolved identity.
// Every check short-circuits before the caller gets a chance to mutate
// anything, so an authorization failure leaves no partial effects.
type Guard struct {
	resolver *IdentityResolver
	logger   Logger
}

// NewGuard builds a Guard over the resolver.
func NewGuard(resolver *IdentityResolver) *Guard {
	return &Guard{
		resolver: resolver,
		logger:   defLogger{},
	}
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// RequireUser resolves the access-token identity for the request.
func (g *Guard) RequireUser(c *fiber.Ctx) (*User, error) {
	return g.resolver.Resolve(c, TokenTypeAccess)
}

// RequireRefresh resolves the refresh-token identity for the request.
func (g *Guard) RequireRefresh(c *fiber.Ctx) (*User, error) {
	return g.resolver.Resolve(c, TokenTypeRefresh)
}

// RequireAdmin resolves the access-token identity and rejects anyone whose
// role is not admin. Role comparison is the closed enum, never a raw string.
func (g *Guard) RequireAdmin(c *fiber.Ctx) (*User, error) {
	user, err := g.RequireUser(c)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() {
		g.logger.Warn("admin check rejected user", "user_id", user.ID, "role", user.Role)
		return nil, ErrInsufficientPrivileges
	}

	return user, nil
}

// AuthorizeUserAction permits an operation targeting targetID when the actor
// is that same user or an admin.
func (g *Guard) AuthorizeUserAction(actor *User, targetID int64) error {
	if actor == nil {
		return ErrNotAuthenticated
	}

	if actor.ID == targetID || actor.IsAdmin() {
		return nil
	}

	g.logger.Warn("user action rejected", "actor_id", actor.ID, "target_id", targetID)
	return ErrInsufficientPrivileges
}

// AuthorizeStatusChange applies the lifecycle policy: self-or-admin for the
// target, admin required to ban anyone, and no one may ban themselves.
func (g *Guard) AuthorizeStatusChange(actor *User, targetID int64, status AccountStatus) error {
	if err := g.AuthorizeUserAction(actor, targetID); err != nil {
		return err
	}

	if status != StatusBanned {
		return nil
	}

	if actor.ID == targetID {
		g.logger.Warn("self-ban rejected", "actor_id", actor.ID)
		return ErrSelfBan
	}

	if !actor.IsAdmin() {
		g.logger.Warn("ban rejected for non-admin", "actor_id", actor.ID, "target_id", targetID)
		return ErrInsufficientPrivileges
	}

	return nil
}
