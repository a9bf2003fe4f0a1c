package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/docpoint/docpoint-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis connection used for the public doctor-list cache.
// The cache is a read optimization only; every caller must handle a nil
// Client and cache misses by falling through to the database.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: cfg.ListTTL}, nil
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *Client) Set(ctx context.Context, key string, value []byte) {
	if c == nil {
		return
	}
	// Best effort; a failed write only costs the next reader a DB round trip.
	_ = c.rdb.Set(ctx, key, value, c.ttl).Err()
}

func (c *Client) Invalidate(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
