package authsvc_test

import (
	"context"
	"testing"

	authsvc "github.com/goliatone/go-auth-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnsureAdminCreatesAccount(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	err := authsvc.EnsureAdmin(ctx, repo, "root@example.com", "bootstrap-secret", nil)
	require.NoError(t, err)

	admin, err := repo.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, authsvc.RoleAdmin, admin.Role)
	assert.Equal(t, authsvc.StatusActive, admin.Status)
	assert.True(t, authsvc.PasswordMatches("bootstrap-secret", admin.PasswordHash))
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	require.NoError(t, authsvc.EnsureAdmin(ctx, repo, "root@example.com", "bootstrap-secret", nil))
	require.NoError(t, authsvc.EnsureAdmin(ctx, repo, "root@example.com", "bootstrap-secret", nil))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestEnsureAdminLeavesExistingAccountAlone(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	existing, err := repo.Create(ctx, &authsvc.User{Email: "root@example.com"}, "original-password")
	require.NoError(t, err)

	require.NoError(t, authsvc.EnsureAdmin(ctx, repo, "root@example.com", "bootstrap-secret", nil))

	found, err := repo.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.Role, found.Role)
	assert.True(t, authsvc.PasswordMatches("original-password", found.PasswordHash))
}

func TestEnsureAdminNoEmailIsNoop(t *testing.T) {
	users := new(MockUsers)

	err := authsvc.EnsureAdmin(context.Background(), users, "", "", nil)
	assert.NoError(t, err)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureAdminRequiresPassword(t *testing.T) {
	err := authsvc.EnsureAdmin(context.Background(), new(MockUsers), "root@example.com", "", nil)
	assert.Error(t, err)
}

func TestEnsureAdminSwallowsProvisioningRace(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsers)
	users.On("GetByEmail", mock.Anything, "root@example.com").Return(nil, authsvc.ErrUserMissing)
	users.On("Create", mock.Anything, mock.Anything, "bootstrap-secret").Return(nil, authsvc.ErrEmailTaken)

	// Another replica winning the insert race still counts as provisioned.
	err := authsvc.EnsureAdmin(ctx, users, "root@example.com", "bootstrap-secret", nil)
	assert.NoError(t, err)
}
