package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// NewStore creates a session store based on configuration: Redis when
// enabled and reachable, in-memory otherwise. The in-memory fallback keeps
// single-instance development setups working without a cache server.
func NewStore(redisCfg config.RedisConfig, sessionCfg config.SessionConfig, logger *zap.Logger) (checkout.SessionRepository, error) {
	if !redisCfg.Enabled {
		logger.Info("Redis disabled, using in-memory session store")
		return NewInMemoryStore(sessionCfg.TTL), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr(),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for session store: %w", err)
	}

	logger.Info("using Redis session store", zap.String("addr", redisCfg.Addr()))
	return NewRedisStore(client, sessionCfg.TTL), nil
}
