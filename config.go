package authsvc

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// ServiceConfig is the concrete configuration the service binary runs with.
// It is built once at startup from the environment and treated as immutable
// afterwards; the signing material is never re-read per request.
type ServiceConfig struct {
	SigningKey      string
	SigningMethod   string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CookieSecure    bool

	HTTPAddr     string
	DatabaseDSN  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KafkaBrokers []string

	AdminEmail    string
	AdminPassword string
}

var _ Config = (*ServiceConfig)(nil)

func (c *ServiceConfig) GetSigningKey() string             { return c.SigningKey }
func (c *ServiceConfig) GetSigningMethod() string          { return c.SigningMethod }
func (c *ServiceConfig) GetIssuer() string                 { return c.Issuer }
func (c *ServiceConfig) GetAccessTokenTTL() time.Duration  { return c.AccessTokenTTL }
func (c *ServiceConfig) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }
func (c *ServiceConfig) GetCookieSecure() bool             { return c.CookieSecure }

// LoadConfig reads the service configuration from the environment.
// AUTH_SIGNING_KEY is the only required value; Validate reports what is
// missing so startup fails before any request is served.
func LoadConfig() *ServiceConfig {
	cfg := &ServiceConfig{
		SigningKey:      os.Getenv("AUTH_SIGNING_KEY"),
		SigningMethod:   envOr("AUTH_SIGNING_METHOD", "HS256"),
		Issuer:          envOr("AUTH_ISSUER", "go-auth-service"),
		AccessTokenTTL:  envDuration("AUTH_ACCESS_TOKEN_TTL", DefaultAccessTokenTTL),
		RefreshTokenTTL: envDuration("AUTH_REFRESH_TOKEN_TTL", DefaultRefreshTokenTTL),
		CookieSecure:    envBool("AUTH_COOKIE_SECURE", true),
		HTTPAddr:        envOr("AUTH_HTTP_ADDR", ":8000"),
		DatabaseDSN:     envOr("AUTH_DATABASE_DSN", "file:auth.db?cache=shared&mode=rwc"),
		RedisAddr:       os.Getenv("AUTH_REDIS_ADDR"),
		RedisPassword:   os.Getenv("AUTH_REDIS_PASSWORD"),
		RedisDB:         envInt("AUTH_REDIS_DB", 0),
		AdminEmail:      os.Getenv("AUTH_ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("AUTH_ADMIN_PASSWORD"),
	}

	if brokers := os.Getenv("AUTH_KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	return cfg
}

// Validate reports configuration errors that must be fatal at startup.
func (c *ServiceConfig) Validate() error {
	if c.SigningKey == "" {
		return errors.New("AUTH_SIGNING_KEY is not set", errors.CategoryBadInput).
			WithTextCode("MISSING_SIGNING_KEY")
	}

	if c.AdminEmail != "" && c.AdminPassword == "" {
		return errors.New("AUTH_ADMIN_EMAIL is set without AUTH_ADMIN_PASSWORD", errors.CategoryBadInput).
			WithTextCode("INCOMPLETE_ADMIN_BOOTSTRAP")
	}

	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
