package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/contacts-api/config"
	"github.com/oksasatya/contacts-api/internal/application"
	"github.com/oksasatya/contacts-api/internal/domain/entity"
	repo "github.com/oksasatya/contacts-api/internal/domain/repository"
	"github.com/oksasatya/contacts-api/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/contacts-api/internal/infrastructure/postgres"
	"github.com/oksasatya/contacts-api/pkg/helpers"
)

// seed creates a confirmed admin account, or promotes and confirms an
// existing account with the configured username.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, time.Hour)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	users := pginfra.NewUserRepository(pool)

	// Refresh cached sessions of a promoted user when Redis is around.
	var sessions *application.SessionCache
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.PingRedis(ctx, rdb, 2*time.Second); err == nil {
		sessions = application.NewSessionCache(cache.NewRedisStore(rdb), cfg.SessionTTL, logger)
	} else {
		logger.WithError(err).Warn("redis unreachable; cached sessions keep their old role until expiry")
	}

	existing, err := users.GetByUsername(ctx, cfg.SeedAdminUsername)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		if cfg.SeedAdminPassword == "" {
			logger.Fatal("SEED_ADMIN_PASSWORD is required to create the admin user")
		}
		hash, err := helpers.NewHasher(0).Hash(ctx, cfg.SeedAdminPassword)
		if err != nil {
			logger.Fatalf("failed to hash password: %v", err)
		}
		avatar := helpers.GravatarURL(cfg.SeedAdminEmail)
		u := &entity.User{
			Username:     cfg.SeedAdminUsername,
			Email:        cfg.SeedAdminEmail,
			PasswordHash: hash,
			Confirmed:    true,
			AvatarURL:    &avatar,
			Role:         entity.RoleAdmin,
		}
		if err := users.Create(ctx, u); err != nil {
			logger.Fatalf("failed to seed admin: %v", err)
		}
		logger.WithField("user_id", u.ID).WithField("username", u.Username).Info("seeded admin user")
	case err != nil:
		logger.Fatalf("failed to look up %s: %v", cfg.SeedAdminUsername, err)
	default:
		if !existing.Confirmed {
			if err := users.SetConfirmed(ctx, existing.Email); err != nil {
				logger.Fatalf("failed to confirm %s: %v", existing.Username, err)
			}
		}
		svc := application.NewUserService(users, nil, sessions, logger)
		u, err := svc.AssignRole(ctx, existing.ID, entity.RoleAdmin.String())
		if err != nil {
			logger.Fatalf("failed to assign admin role: %v", err)
		}
		logger.WithField("user_id", u.ID).WithField("username", u.Username).Info("existing user promoted to admin")
	}
}
