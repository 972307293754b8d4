package authsvc_test

import (
	"context"
	"sync"
	"time"

	authsvc "github.com/goliatone/go-auth-service"
	"github.com/stretchr/testify/mock"
)

// testConfig is a value implementation of authsvc.Config. Zero TTLs exercise
// the service defaults.
type testConfig struct {
	signingKey    string
	signingMethod string
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	cookieSecure  bool
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:    "test-signing-key",
		signingMethod: "HS256",
		issuer:        "test-issuer",
	}
}

func (c testConfig) GetSigningKey() string             { return c.signingKey }
func (c testConfig) GetSigningMethod() string          { return c.signingMethod }
func (c testConfig) GetIssuer() string                 { return c.issuer }
func (c testConfig) GetAccessTokenTTL() time.Duration  { return c.accessTTL }
func (c testConfig) GetRefreshTokenTTL() time.Duration { return c.refreshTTL }
func (c testConfig) GetCookieSecure() bool             { return c.cookieSecure }

// MockUsers implements authsvc.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id int64) (*authsvc.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*authsvc.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*authsvc.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*authsvc.User)
	return user, args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, user *authsvc.User, password string) (*authsvc.User, error) {
	args := m.Called(ctx, user, password)
	created, _ := args.Get(0).(*authsvc.User)
	return created, args.Error(1)
}

func (m *MockUsers) Update(ctx context.Context, id int64, changes authsvc.UserUpdate) (*authsvc.User, error) {
	args := m.Called(ctx, id, changes)
	updated, _ := args.Get(0).(*authsvc.User)
	return updated, args.Error(1)
}

func (m *MockUsers) UpdateStatus(ctx context.Context, id int64, status authsvc.AccountStatus) (*authsvc.User, error) {
	args := m.Called(ctx, id, status)
	updated, _ := args.Get(0).(*authsvc.User)
	return updated, args.Error(1)
}

func (m *MockUsers) List(ctx context.Context) ([]*authsvc.User, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]*authsvc.User)
	return records, args.Error(1)
}

// recordingPublisher captures emitted registration events.
type recordingPublisher struct {
	mu     sync.Mutex
	emails []string
	err    error
}

func (p *recordingPublisher) PublishUserRegistered(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.emails = append(p.emails, email)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.emails...)
}

func newTestUser(id int64, email string, role authsvc.Role, password string) *authsvc.User {
	hash, err := authsvc.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return &authsvc.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       authsvc.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}
}
