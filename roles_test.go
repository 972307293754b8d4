package authsvc_test

import (
	"testing"

	authsvc "github.com/goliatone/go-auth-service"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  authsvc.Role
		ok    bool
	}{
		{"user", authsvc.RoleUser, true},
		{"admin", authsvc.RoleAdmin, true},
		{"ADMIN", "", false},
		{"superuser", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, ok := authsvc.ParseRole(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, role)
			}
		})
	}
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, authsvc.RoleAdmin.IsAdmin())
	assert.False(t, authsvc.RoleUser.IsAdmin())
	// Role checks use the closed enum; a stray uppercase string is not admin.
	assert.False(t, authsvc.Role("ADMIN").IsAdmin())
}

func TestParseAccountStatus(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"active", true},
		{"deleted", true},
		{"banned", true},
		{"frozen", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, ok := authsvc.ParseAccountStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
