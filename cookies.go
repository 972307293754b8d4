package authsvc

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieManager binds tokens to their named, path-scoped cookie slots and
// extracts them back out of inbound requests. It never inspects the request
// path itself; path scoping is enforced by the client per RFC 6265.
type CookieManager struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
	now        func() time.Time
}

// NewCookieManager builds a CookieManager whose cookie lifetimes mirror the
// token lifetimes in cfg.
func NewCookieManager(cfg Config) *CookieManager {
	accessTTL := cfg.GetAccessTokenTTL()
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}

	refreshTTL := cfg.GetRefreshTokenTTL()
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	return &CookieManager{
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		secure:     cfg.GetCookieSecure(),
		now:        time.Now,
	}
}

// WithClock injects a custom clock (useful for tests).
func (m *CookieManager) WithClock(clock func() time.Time) *CookieManager {
	if clock != nil {
		m.now = clock
	}
	return m
}

// Attach sets the HTTP-only cookie for the token type. Refresh cookies are
// scoped to the refresh endpoint path so clients never present them anywhere
// else.
func (m *CookieManager) Attach(c *fiber.Ctx, tokenType TokenType, token string) {
	ttl := m.accessTTL
	if tokenType == TokenTypeRefresh {
		ttl = m.refreshTTL
	}

	c.Cookie(&fiber.Cookie{
		Name:     tokenType.CookieName(),
		Value:    token,
		Path:     tokenType.CookiePath(),
		Expires:  m.now().Add(ttl),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: "Lax",
	})
}

// Extract reads the raw token for the token type from the request, failing
// with ErrNotAuthenticated when the cookie is absent.
func (m *CookieManager) Extract(c *fiber.Ctx, tokenType TokenType) (string, error) {
	token := c.Cookies(tokenType.CookieName())
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// Clear deletes the cookie for the token type. Deletion targets the same
// path scope used on Attach, otherwise the browser keeps the original.
func (m *CookieManager) Clear(c *fiber.Ctx, tokenType TokenType) {
	c.Cookie(&fiber.Cookie{
		Name:     tokenType.CookieName(),
		Value:    "",
		Path:     tokenType.CookiePath(),
		Expires:  m.now().Add(-time.Hour * 24 * 365),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: "Lax",
	})
}
