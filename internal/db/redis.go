package db

import (
	"context"
	"fmt"

	"ctchen222/tictactoe-engine/internal/config"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates a Redis client for the configured address and
// pings it so a bad address fails at startup instead of on first publish.
func NewRedisClient(ctx context.Context, conf config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: conf.GetRedisAddr(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", conf.GetRedisAddr(), err)
	}

	return client, nil
}
