package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	authsvc "github.com/goliatone/go-auth-service"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(logger); err != nil {
		logger.Error("service exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := authsvc.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := authsvc.CreateUsersSchema(ctx, db); err != nil {
		return err
	}

	repo := authsvc.NewUsersRepository(db, authsvc.WithUsersLogger(logger))

	var cache authsvc.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := authsvc.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		cache = redisCache
		logger.Info("using redis cache", "addr", cfg.RedisAddr)
	} else {
		cache = authsvc.NewMemoryCache()
		logger.Info("using in-memory cache")
	}
	users := authsvc.NewCachedUsers(repo, cache, authsvc.DefaultCacheTTL)

	tokens, err := authsvc.NewTokenService(cfg)
	if err != nil {
		return err
	}
	tokens = tokens.WithLogger(logger)

	cookies := authsvc.NewCookieManager(cfg)
	resolver := authsvc.NewIdentityResolver(tokens, cookies, users).WithLogger(logger)
	guard := authsvc.NewGuard(resolver).WithLogger(logger)
	authenticator := authsvc.NewAuthenticator(users).WithLogger(logger)

	var publisher authsvc.EventPublisher = authsvc.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := authsvc.NewKafkaPublisher(cfg.KafkaBrokers,
			authsvc.WithPublisherLogger(logger),
		)
		if err != nil {
			return err
		}
		publisher = kafkaPublisher
		logger.Info("publishing registration events", "brokers", cfg.KafkaBrokers)
	}
	defer publisher.Close()

	if err := authsvc.EnsureAdmin(ctx, users, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		return err
	}

	controller := authsvc.NewHTTPController(
		authsvc.WithControllerLogger(logger),
		authsvc.WithGuard(guard),
		authsvc.WithAuthenticator(authenticator),
		authsvc.WithUsers(users),
		authsvc.WithTokenMinter(tokens),
		authsvc.WithCookieManager(cookies),
		authsvc.WithEventPublisher(publisher),
	)

	app := fiber.New(fiber.Config{
		AppName:      "authd",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	authsvc.RegisterRoutes(app, controller)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.HTTPAddr)
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}
