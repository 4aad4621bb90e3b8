package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"certify/internal/platform/config"
)

// Client is the connection backing the reference snapshot cache.
type Client struct {
	*redis.Client
}

// Connect dials Redis and pings it once so a bad REDIS_URL fails at startup
// rather than on the first claim. It returns (nil, nil) when no URL is set.
func Connect(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	opts.PoolSize, opts.MinIdleConns = cfg.PoolSize, cfg.MinIdleConns
	opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout = cfg.DialTimeout, cfg.ReadTimeout, cfg.WriteTimeout

	c := &Client{Client: redis.NewClient(opts)}
	if err := c.Health(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

// Health pings the server; it backs the "redis" entry of /health.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
