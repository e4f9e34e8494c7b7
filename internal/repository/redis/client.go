package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Connect returns a client for addr, or nil when addr is empty or the
// server does not answer. Callers run without a cache in that case.
func Connect(ctx context.Context, addr, password string, logger *zap.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("could not connect to redis, running without cache", zap.String("addr", addr), zap.Error(err))
		client.Close()
		return nil
	}
	logger.Info("redis connected", zap.String("addr", addr))
	return client
}
