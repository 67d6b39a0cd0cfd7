package db

import (
	"context"
	"fmt"

	"github.com/Mareeswari30/Smart-Banking/config"
	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a pinged client, or nil when redis.host is not configured.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	addr := cfg.RedisAddr()
	if addr == "" {
		logger.Log.Info("Redis not configured, caching and login rate limiting disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		logger.Log.WithError(err).Error("Failed to ping Redis")
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Log.WithField("address", addr).Info("Redis connection established successfully")
	return rdb, nil
}
