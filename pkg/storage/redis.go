package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session keys in a shared Redis.
const DefaultRedisPrefix = "estate:session:"

// RedisStore keeps the session in Redis. Keys carry no TTL.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore returns a RedisStore using DefaultRedisPrefix.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return NewRedisStoreWithPrefix(client, DefaultRedisPrefix)
}

// NewRedisStoreWithPrefix returns a RedisStore with a custom key prefix.
func NewRedisStoreWithPrefix(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key Key) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+string(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, value string) error {
	if err := s.client.Set(ctx, s.prefix+string(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, s.prefix+string(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
