package authsvc

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType tells access and refresh tokens apart. It is carried as a signed
// claim and doubles as the cookie-slot selector.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// IsValid checks if the token type is one of the two known kinds
func (t TokenType) IsValid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// CookieName returns the cookie slot bound to this token type.
func (t TokenType) CookieName() string {
	return "user_" + string(t) + "_token"
}

// CookiePath returns the path scope for the cookie slot. Refresh tokens are
// never readable by clients outside the refresh endpoint.
func (t TokenType) CookiePath() string {
	if t == TokenTypeRefresh {
		return RefreshCookiePath
	}
	return "/"
}

// RefreshCookiePath is the only path browsers present the refresh cookie on.
const RefreshCookiePath = "/auth/refresh"

// JWTClaims is the signed claim set carried by every minted token.
type JWTClaims struct {
	jwt.RegisteredClaims
	UserRole  Role      `json:"role,omitempty"`
	TokenKind TokenType `json:"typ,omitempty"`
}

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID parses the subject claim into a user id. The second return is false
// when the claim is absent or not a decimal integer.
func (c *JWTClaims) UserID() (int64, bool) {
	sub := c.RegisteredClaims.Subject
	if sub == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Role returns the role claim
func (c *JWTClaims) Role() Role {
	return c.UserRole
}

// Type returns the token-type claim
func (c *JWTClaims) Type() TokenType {
	return c.TokenKind
}

// Expires returns the expiration time, zero when the claim is absent.
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time, zero when the claim is absent.
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
