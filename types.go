package authsvc

import (
	"context"
	"fmt"
	"time"
)

// Logger is the narrow logging contract every component accepts. Arguments
// after the message are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds the process-wide auth options. It is constructed once at
// startup and read-only afterwards; constructors fail fast on invalid values
// instead of masking misconfiguration as runtime auth failures.
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetIssuer() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetCookieSecure() bool
}

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (*JWTClaims, error)
}

// TokenMinter issues a signed token of the given type for a user.
type TokenMinter interface {
	Mint(user *User, tokenType TokenType) (string, error)
}

// UserFinder is the read-side subset of the repository the resolver needs.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// Users is the repository contract for user records. Create hashes the raw
// password before storage and returns the created entity; Update re-hashes
// when a new password is present.
type Users interface {
	UserFinder
	Create(ctx context.Context, user *User, password string) (*User, error)
	Update(ctx context.Context, id int64, changes UserUpdate) (*User, error)
	UpdateStatus(ctx context.Context, id int64, status AccountStatus) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// EventPublisher emits domain events to an external broker. Publishing is
// best-effort; failures are logged, never surfaced to the request.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, email string) error
	Close() error
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }

func (defLogger) print(level, msg string, args ...any) {
	if len(args) > 0 {
		fmt.Printf("[%s] AUTH %s %v\n", level, msg, args)
		return
	}
	fmt.Printf("[%s] AUTH %s\n", level, msg)
}
