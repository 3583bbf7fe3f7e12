package redis

import (
	"context"

	"github.com/go-redis/redis/v8"

	"telegram-media-bots/internal/config"
)

// NewClient connects and pings; the caller owns Close.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return c, nil
}
