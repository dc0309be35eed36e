package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "zamanipay:"

// RedisStore keeps the identity record under a single Redis key. SET replaces
// the value atomically.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore builds a store writing to "<prefix>userData". An empty prefix
// uses "zamanipay:".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, key: prefix + StorageKey}
}

// Load fetches the stored identity. A missing key means logged out.
func (s *RedisStore) Load(ctx context.Context) (Identity, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrNotLoggedIn
		}
		return Identity{}, fmt.Errorf("get identity: %w", err)
	}
	return decode(data)
}

// Save replaces the stored identity.
func (s *RedisStore) Save(ctx context.Context, id Identity) error {
	data, err := encode(id)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set identity: %w", err)
	}
	return nil
}

// Clear deletes the stored identity.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}
