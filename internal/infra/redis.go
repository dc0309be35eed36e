package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisDialTimeout = 3 * time.Second
	redisPoolSize    = 10
)

// NewRedisClient connects to Redis and pings it. The client holds the
// cached identity for the CLI (identity.RedisStore) and the idempotency and
// login-attempt keys of the sandbox.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redisOptions(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// redisOptions parses url and fills the dial timeout and pool size when the
// url leaves them unset.
func redisOptions(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opt.DialTimeout == 0 {
		opt.DialTimeout = redisDialTimeout
	}
	if opt.PoolSize == 0 {
		opt.PoolSize = redisPoolSize
	}
	return opt, nil
}
