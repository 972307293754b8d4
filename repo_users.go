package authsvc

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type users struct {
	db     bun.IDB
	logger Logger
}

var _ Users = (*users)(nil)

// UsersOption customizes the repository.
type UsersOption func(*users)

// WithUsersLogger overrides the repository logger.
func WithUsersLogger(logger Logger) UsersOption {
	return func(u *users) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewUsersRepository builds the Users repository over a Bun database handle.
func NewUsersRepository(db bun.IDB, opts ...UsersOption) Users {
	repo := &users{
		db:     db,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userMissing("email", email)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user lookup by email failed")
	}

	return record, nil
}

func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userMissing("id", id)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user lookup by id failed")
	}

	return record, nil
}

// Create hashes the raw password, fills role/status defaults, inserts the
// record, and returns the created entity with its assigned id.
func (a *users) Create(ctx context.Context, user *User, password string) (*User, error) {
	if user == nil {
		return nil, errors.New("cannot create a nil user", errors.CategoryBadInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	record := *user
	record.PasswordHash = hash
	record.EnsureDefaults()

	if _, err := a.db.NewInsert().Model(&record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user insert failed")
	}

	a.logger.Info("user created", "id", record.ID, "email", record.Email)
	return &record, nil
}

// Update applies a partial update and returns the fresh record. A present
// password is re-hashed before storage; a present email is subject to the
// same uniqueness constraint as insertion.
func (a *users) Update(ctx context.Context, id int64, changes UserUpdate) (*User, error) {
	if changes.IsZero() {
		return a.GetByID(ctx, id)
	}

	q := a.db.NewUpdate().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id)

	if changes.Email != nil {
		q = q.Set("email = ?", *changes.Email)
	}

	if changes.Password != nil {
		hash, err := HashPassword(*changes.Password)
		if err != nil {
			return nil, err
		}
		q = q.Set("password_hash = ?", hash)
	}

	if changes.Balance != nil {
		q = q.Set("balance = ?", *changes.Balance)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user update failed")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, userMissing("id", id)
	}

	a.logger.Info("user updated", "id", id)
	return a.GetByID(ctx, id)
}

// UpdateStatus sets the account lifecycle status and returns the fresh record.
func (a *users) UpdateStatus(ctx context.Context, id int64, status AccountStatus) (*User, error) {
	if !status.IsValid() {
		return nil, errors.New("unknown account status", errors.CategoryBadInput).
			WithMetadata(map[string]any{"status": string(status)})
	}

	res, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("status = ?", status).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "status update failed")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, userMissing("id", id)
	}

	a.logger.Info("account status updated", "id", id, "status", status)
	return a.GetByID(ctx, id)
}

func (a *users) List(ctx context.Context) ([]*User, error) {
	var records []*User
	err := a.db.NewSelect().
		Model(&records).
		Order("id ASC").
		Scan(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "user listing failed")
	}

	return records, nil
}

// CreateUsersSchema creates the users table when it does not exist yet.
func CreateUsersSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func userMissing(field string, value any) error {
	return ErrUserMissing.Clone().
		WithMetadata(map[string]any{field: value})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
