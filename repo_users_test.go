package authsvc_test

import (
	"context"
	"database/sql"
	"testing"

	authsvc "github.com/goliatone/go-auth-service"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupUsersRepo(t *testing.T) authsvc.Users {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, authsvc.CreateUsersSchema(context.Background(), db))
	return authsvc.NewUsersRepository(db)
}

func TestUsersCreate(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	created, err := repo.Create(ctx, &authsvc.User{Email: "tester@example.com"}, "password-123")
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "tester@example.com", created.Email)
	assert.Equal(t, authsvc.RoleUser, created.Role)
	assert.Equal(t, authsvc.StatusActive, created.Status)
	assert.True(t, authsvc.PasswordMatches("password-123", created.PasswordHash))
}

func TestUsersCreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	_, err := repo.Create(ctx, &authsvc.User{Email: "tester@example.com"}, "password-123")
	require.NoError(t, err)

	_, err = repo.Create(ctx, &authsvc.User{Email: "tester@example.com"}, "other-password")
	assert.ErrorIs(t, err, authsvc.ErrEmailTaken)
}

func TestUsersCreateEmptyPassword(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	_, err := repo.Create(ctx, &authsvc.User{Email: "tester@example.com"}, "")
	assert.ErrorIs(t, err, authsvc.ErrNoEmptyString)
}

func TestUsersGetByEmail(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	created, err := repo.Create(ctx, &authsvc.User{Email: "tester@example.com"}, "password-123")
	require.NoError(t, err)

	found, err := repo.GetByEmail(ctx, "tester@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, authsvc.ErrUserMissing)
	assert.True(t, errors.IsNotFound(err))
}

func TestUsersGetByID(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	created, err := repo.Create(ctx, &authsvc.User{Email: "tester@example.com"}, "password-123")
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "tester@example.com", found.Email)

	_, err = repo.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, authsvc.ErrUserMissing)
}

func TestUsersUpdatePartial(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	created, err := repo.Create(ctx, &authsvc.User{Email: "tester@example.com"}, "password-123")
	require.NoError(t, err)
	originalHash := created.PasswordHash

	newEmail := "renamed@example.com"
	updated, err := repo.Update(ctx, created.ID, authsvc.UserUpdate{Email: &newEmail})
	require.NoError(t, err)

	assert.Equal(t, newEmail, updated.Email)
	// Password stays untouched when the update omits it.
	assert.Equal(t, originalHash, updated.PasswordHash)

	newPassword := "changed-password"
	updated, err = repo.Update(ctx, created.ID, authsvc.UserUpdate{Password: &newPassword})
	require.NoError(t, err)

	assert.NotEqual(t, originalHash, updated.PasswordHash)
	assert.True(t, authsvc.PasswordMatches(newPassword, updated.PasswordHash))
}

func TestUsersUpdateBalance(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	created, err := repo.Create(ctx, &authsvc.User{Email: "tester@example.com"}, "password-123")
	require.NoError(t, err)

	balance := 99.5
	updated, err := repo.Update(ctx, created.ID, authsvc.UserUpdate{Balance: &balance})
	require.NoError(t, err)
	assert.Equal(t, 99.5, updated.Balance)
}

func TestUsersUpdateMissingUser(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	email := "ghost@example.com"
	_, err := repo.Update(ctx, 404, authsvc.UserUpdate{Email: &email})
	assert.ErrorIs(t, err, authsvc.ErrUserMissing)
}

func TestUsersUpdateEmptyChangeSet(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	created, err := repo.Create(ctx, &authsvc.User{Email: "tester@example.com"}, "password-123")
	require.NoError(t, err)

	got, err := repo.Update(ctx, created.ID, authsvc.UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)
}

func TestUsersUpdateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	_, err := repo.Create(ctx, &authsvc.User{Email: "first@example.com"}, "password-123")
	require.NoError(t, err)
	second, err := repo.Create(ctx, &authsvc.User{Email: "second@example.com"}, "password-123")
	require.NoError(t, err)

	taken := "first@example.com"
	_, err = repo.Update(ctx, second.ID, authsvc.UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, authsvc.ErrEmailTaken)
}

func TestUsersUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	created, err := repo.Create(ctx, &authsvc.User{Email: "tester@example.com"}, "password-123")
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, created.ID, authsvc.StatusBanned)
	require.NoError(t, err)
	assert.Equal(t, authsvc.StatusBanned, updated.Status)

	_, err = repo.UpdateStatus(ctx, created.ID, authsvc.AccountStatus("frozen"))
	assert.Error(t, err)

	_, err = repo.UpdateStatus(ctx, created.ID+100, authsvc.StatusActive)
	assert.ErrorIs(t, err, authsvc.ErrUserMissing)
}

func TestUsersList(t *testing.T) {
	ctx := context.Background()
	repo := setupUsersRepo(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := repo.Create(ctx, &authsvc.User{Email: email}, "password-123")
		require.NoError(t, err)
	}

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Listing is ordered by id, which for autoincrement means insertion order.
	assert.Equal(t, "a@example.com", records[0].Email)
	assert.Equal(t, "c@example.com", records[2].Email)
}
