package authsvc_test

import (
	"net/http"
	"testing"

	authsvc "github.com/goliatone/go-auth-service"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var richErr *errors.Error
	require.True(t, errors.As(err, &richErr))
	return richErr.Code
}

func TestErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not authenticated", authsvc.ErrNotAuthenticated, http.StatusUnauthorized},
		{"invalid token", authsvc.ErrInvalidToken, http.StatusUnauthorized},
		{"token expired", authsvc.ErrTokenExpired, http.StatusUnauthorized},
		{"token malformed", authsvc.ErrTokenMalformed, http.StatusUnauthorized},
		{"user behind token gone", authsvc.ErrUserNotFound, http.StatusUnauthorized},
		{"invalid credentials", authsvc.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive account", authsvc.ErrAccountInactive, http.StatusUnauthorized},
		{"insufficient privileges", authsvc.ErrInsufficientPrivileges, http.StatusForbidden},
		{"self ban", authsvc.ErrSelfBan, http.StatusForbidden},
		{"email taken", authsvc.ErrEmailTaken, http.StatusConflict},
		{"user missing", authsvc.ErrUserMissing, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, httpCode(t, tt.err))
		})
	}
}

func TestCredentialErrorsShareMessage(t *testing.T) {
	// Wrong password, unknown account, and inactive account read identically
	// to the client.
	assert.Equal(t, authsvc.ErrInvalidCredentials.Error(), authsvc.ErrAccountInactive.Error())
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, authsvc.IsAuthError(authsvc.ErrNotAuthenticated))
	assert.True(t, authsvc.IsAuthError(authsvc.ErrInsufficientPrivileges))
	assert.False(t, authsvc.IsAuthError(authsvc.ErrEmailTaken))
	assert.False(t, authsvc.IsAuthError(nil))
}

func TestUserMissingIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(authsvc.ErrUserMissing))
}
