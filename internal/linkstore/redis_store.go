package linkstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps links in Redis so every bot replica can resolve them.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed link store.
func NewRedisStore(client *redis.Client, log *slog.Logger, ttl time.Duration) *RedisStore {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{client: client, log: log, ttl: ttl}
}

// Put stores url and refreshes its TTL.
func (s *RedisStore) Put(ctx context.Context, url string) (string, error) {
	key := Key(url)

	if err := s.client.Set(ctx, redisLinkKey(key), url, s.ttl).Err(); err != nil {
		s.log.Error("failed to store link", slog.String("key", key), slog.Any("error", err))
		return "", err
	}

	return key, nil
}

// Resolve returns the URL stored under key.
func (s *RedisStore) Resolve(ctx context.Context, key string) (string, error) {
	url, err := s.client.Get(ctx, redisLinkKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		s.log.Error("failed to resolve link", slog.String("key", key), slog.Any("error", err))
		return "", err
	}

	return url, nil
}

func redisLinkKey(key string) string {
	return fmt.Sprintf("link:%s", key)
}
