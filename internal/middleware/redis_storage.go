package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage implements fiber.Storage on top of go-redis so limiter counters are
// shared across API replicas.
type RedisStorage struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisStorage builds a storage that namespaces every key with prefix.
func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = "gema:limiter:"
	}
	return &RedisStorage{client: client, prefix: prefix, timeout: 2 * time.Second}
}

func (s *RedisStorage) key(k string) string {
	return s.prefix + k
}

func (s *RedisStorage) newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get returns nil without error when the key does not exist.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := s.newContext()
	defer cancel()

	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return value, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.newContext()
	defer cancel()

	return s.client.Set(ctx, s.key(key), val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := s.newContext()
	defer cancel()

	return s.client.Del(ctx, s.key(key)).Err()
}

// Reset removes every key under the storage prefix.
func (s *RedisStorage) Reset() error {
	ctx, cancel := s.newContext()
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the client lifecycle belongs to the caller.
func (s *RedisStorage) Close() error {
	return nil
}
