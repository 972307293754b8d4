package authsvc

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// User is the identity record. The core only ever holds it by value after a
// lookup; all mutation goes through explicit repository operations.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64         `bun:"id,pk,autoincrement" json:"id"`
	Email         string        `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string        `bun:"password_hash,notnull" json:"-"`
	Role          Role          `bun:"user_role,notnull,default:'user'" json:"role"`
	Status        AccountStatus `bun:"status,notnull,default:'active'" json:"status"`
	Balance       float64       `bun:"balance,notnull,default:0" json:"balance"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// SubjectID is the value the sub claim carries: the user id as a decimal string.
func (u *User) SubjectID() string {
	return strconv.FormatInt(u.ID, 10)
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// EnsureDefaults fills role and status when unset, before insertion.
func (u *User) EnsureDefaults() {
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
}

// UserUpdate is the partial update payload for the repository. Nil fields are
// left untouched; Password is re-hashed before storage.
type UserUpdate struct {
	Email    *string
	Password *string
	Balance  *float64
}

// IsZero reports whether the update would change nothing.
func (c UserUpdate) IsZero() bool {
	return c.Email == nil && c.Password == nil && c.Balance == nil
}
