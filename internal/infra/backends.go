package infra

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/zamanipay/zamanipay/internal/config"
)

// Backends are the optional stores of the sandbox. A nil field means the
// in-memory fallback is used.
type Backends struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
}

// Open connects to whatever is configured. Outside development both
// Postgres and Redis are required.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (Backends, error) {
	var b Backends
	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return b, fmt.Errorf("DATABASE_URL is required when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return b, fmt.Errorf("REDIS_URL is required when APP_ENV=%s", cfg.AppEnv)
		}
	}

	if cfg.DatabaseURL != "" {
		db, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return b, err
		}
		b.DB = db
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory accounts")
	}

	if cfg.RedisURL != "" {
		cache, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			b.Close(logger)
			return Backends{}, err
		}
		b.Cache = cache
	} else {
		logger.Warn("REDIS_URL not set, idempotency and login rate limiting disabled")
	}
	return b, nil
}

// Close releases every open connection.
func (b Backends) Close(logger *slog.Logger) {
	if b.Cache != nil {
		if err := b.Cache.Close(); err != nil {
			logger.Warn("close redis", slog.Any("error", err))
		}
	}
	if b.DB != nil {
		b.DB.Close()
	}
}
