package authsvc

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// IdentityResolver turns an inbound request plus an expected token type into
// a live user identity. Each call walks a fixed sequence with one terminal
// failure per step:
//
//	extract cookie  -> ErrNotAuthenticated
//	decode/verify   -> ErrInvalidToken / ErrTokenExpired / ErrTokenMalformed
//	typ claim check -> ErrTokenMalformed
//	sub claim parse -> ErrTokenMalformed
//	user lookup     -> ErrUserNotFound
//
// The sequence is identical for access and refresh tokens; only the cookie
// slot differs, and the resolver never looks at the request path.
type IdentityResolver struct {
	tokens  TokenValidator
	cookies *CookieManager
	users   UserFinder
	logger  Logger
}

// NewIdentityResolver wires the resolver from its three collaborators.
func NewIdentityResolver(tokens TokenValidator, cookies *CookieManager, users UserFinder) *IdentityResolver {
	return &IdentityResolver{
		tokens:  tokens,
		cookies: cookies,
		users:   users,
		logger:  defLogger{},
	}
}

func (r *IdentityResolver) WithLogger(logger Logger) *IdentityResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Resolve extracts, validates, and resolves the token in the cookie slot for
// tokenType, returning the live user it names.
func (r *IdentityResolver) Resolve(c *fiber.Ctx, tokenType TokenType) (*User, error) {
	raw, err := r.cookies.Extract(c, tokenType)
	if err != nil {
		return nil, err
	}

	claims, err := r.tokens.Validate(raw)
	if err != nil {
		r.logger.Warn("token validation failed", "type", tokenType, "error", err)
		return nil, err
	}

	if claims.Type() != tokenType {
		r.logger.Warn("token type claim does not match cookie slot",
			"expected", tokenType, "got", claims.Type())
		return nil, ErrTokenMalformed
	}

	userID, ok := claims.UserID()
	if !ok {
		r.logger.Warn("token subject missing or unparseable", "sub", claims.Subject())
		return nil, ErrTokenMalformed
	}

	user, err := r.users.GetByID(c.Context(), userID)
	if err != nil {
		if errors.IsNotFound(err) {
			r.logger.Warn("token resolved to a missing user", "user_id", userID)
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "identity lookup failed")
	}

	return user, nil
}
