// Package bootstrap wires runtime dependencies selected by configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"askly/internal/config"
	"askly/internal/database"
	"askly/internal/middleware"
	"askly/internal/repository"
	"askly/internal/repository/memory"
	redispkg "askly/pkg/redis"

	"github.com/redis/go-redis/v9"
)

const redisConnectTimeout = 2 * time.Second

// OpenStore returns the Store named by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		middleware.Logger.Warn("Using in-memory store; data is lost on restart")
		return memory.New(), nil
	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// OpenRedis connects when REDIS_URL is set. A failed connection is logged and
// treated as absent so rate limiting falls back to its policy.
func OpenRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	client, err := redispkg.NewClient(ctx, cfg.RedisURL, redisConnectTimeout)
	if err != nil {
		middleware.Logger.Warn("Redis unavailable", slog.String("error", err.Error()))
		return nil
	}
	return client
}
