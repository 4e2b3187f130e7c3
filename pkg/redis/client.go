package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"localpm/pkg/config"
)

// NewClient connects to Redis and verifies the connection with a ping. A nil
// client is returned when Redis is unreachable so callers can run without the
// cache.
func NewClient(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	if cfg.Addr == "" {
		logger.Info("Redis not configured, cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed, cache disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		client.Close()
		return nil
	}

	logger.Info("Redis connection established", zap.String("addr", cfg.Addr))
	return client
}
