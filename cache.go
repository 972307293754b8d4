package authsvc

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how stale a cached lookup may get. The cache is a
// best-effort read layer: status-sensitive decisions are still made on the
// record the repository returns, never on cache residency.
const DefaultCacheTTL = 5 * time.Minute

// Cache is the injectable get/set/invalidate abstraction that fronts the
// user repository. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

type memoryCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local TTL cache. Expired entries are dropped
// lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
	now     func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache builds an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryCacheEntry),
		now:     time.Now,
	}
}

// WithClock injects a custom clock (useful for tests).
func (c *MemoryCache) WithClock(clock func() time.Time) *MemoryCache {
	if clock != nil {
		c.now = clock
	}
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	c.mu.Lock()
	c.entries[key] = memoryCacheEntry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}

// cachedUsers decorates a Users repository with read-through caching of the
// by-id and by-email lookups. Mutations write through to the inner store and
// invalidate both keys for the touched record.
type cachedUsers struct {
	inner  Users
	cache  Cache
	ttl    time.Duration
	logger Logger
}

var _ Users = (*cachedUsers)(nil)

// NewCachedUsers wraps a Users repository with the given cache. A zero ttl
// falls back to DefaultCacheTTL.
func NewCachedUsers(inner Users, cache Cache, ttl time.Duration) Users {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedUsers{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: defLogger{},
	}
}

func userIDKey(id int64) string        { return "users:id:" + strconv.FormatInt(id, 10) }
func userEmailKey(email string) string { return "users:email:" + email }

func (c *cachedUsers) GetByID(ctx context.Context, id int64) (*User, error) {
	if user, ok := c.cachedUser(ctx, userIDKey(id)); ok {
		return user, nil
	}

	user, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, user)
	return user, nil
}

func (c *cachedUsers) GetByEmail(ctx context.Context, email string) (*User, error) {
	if user, ok := c.cachedUser(ctx, userEmailKey(email)); ok {
		return user, nil
	}

	user, err := c.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	c.store(ctx, user)
	return user, nil
}

func (c *cachedUsers) Create(ctx context.Context, user *User, password string) (*User, error) {
	created, err := c.inner.Create(ctx, user, password)
	if err != nil {
		return nil, err
	}

	c.store(ctx, created)
	return created, nil
}

func (c *cachedUsers) Update(ctx context.Context, id int64, changes UserUpdate) (*User, error) {
	c.invalidate(ctx, id)

	updated, err := c.inner.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	c.store(ctx, updated)
	return updated, nil
}

func (c *cachedUsers) UpdateStatus(ctx context.Context, id int64, status AccountStatus) (*User, error) {
	c.invalidate(ctx, id)

	updated, err := c.inner.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	c.store(ctx, updated)
	return updated, nil
}

func (c *cachedUsers) List(ctx context.Context) ([]*User, error) {
	return c.inner.List(ctx)
}

// cachedUserRecord is the cache wire form. The User model strips the
// password hash from its JSON; the cache must keep it so cached by-email
// reads still support credential verification.
type cachedUserRecord struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"password_hash"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	Balance      float64       `json:"balance"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (r cachedUserRecord) user() *User {
	return &User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		Status:       r.Status,
		Balance:      r.Balance,
		CreatedAt:    r.CreatedAt,
	}
}

func (c *cachedUsers) cachedUser(ctx context.Context, key string) (*User, bool) {
	raw, ok := c.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	record := cachedUserRecord{}
	if err := json.Unmarshal(raw, &record); err != nil {
		c.cache.Delete(ctx, key)
		return nil, false
	}

	return record.user(), true
}

func (c *cachedUsers) store(ctx context.Context, user *User) {
	if user == nil {
		return
	}

	raw, err := json.Marshal(cachedUserRecord{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		Status:       user.Status,
		Balance:      user.Balance,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		c.logger.Warn("cache encode failed", "id", user.ID, "error", err)
		return
	}

	c.cache.Set(ctx, userIDKey(user.ID), raw, c.ttl)
	c.cache.Set(ctx, userEmailKey(user.Email), raw, c.ttl)
}

func (c *cachedUsers) invalidate(ctx context.Context, id int64) {
	// The email key can only be dropped if we still know the email.
	if user, ok := c.cachedUser(ctx, userIDKey(id)); ok {
		c.cache.Delete(ctx, userEmailKey(user.Email))
	}
	c.cache.Delete(ctx, userIDKey(id))
}
