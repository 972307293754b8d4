package authsvc

// Role is the closed set of user roles. Role checks compare enum values,
// never raw strings from a token or a form.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	StatusActive  AccountStatus = "active"
	StatusDeleted AccountStatus = "deleted"
	StatusBanned  AccountStatus = "banned"
)

// IsValid checks if the status is one of the predefined lifecycle states
func (s AccountStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusDeleted, StatusBanned:
		return true
	default:
		return false
	}
}

// ParseAccountStatus safely parses a string into an AccountStatus
func ParseAccountStatus(statusStr string) (AccountStatus, bool) {
	status := AccountStatus(statusStr)
	return status, status.IsValid()
}

// statusAuthError maps a non-active status to the auth failure surfaced at
// login. Banned and deleted accounts fail the same way a bad password does.
func statusAuthError(status AccountStatus) error {
	switch status {
	case StatusActive, "":
		return nil
	default:
		return ErrAccountInactive
	}
}
