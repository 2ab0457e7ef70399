package idempotency

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"

	keyPrefix = "dedup:"
)

// Store remembers which updates were seen and guards each one with a short lock.
type Store interface {
	Lock(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	// Status returns "" for an update that was never recorded.
	Status(ctx context.Context, key string) (string, error)
	SetStatus(ctx context.Context, key, status string, ttl time.Duration) error
	Forget(ctx context.Context, key string) error
}

type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRedisStore(client *redis.Client, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{client: client, log: log}
}

func (s *RedisStore) Lock(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	acquired, err := s.client.SetNX(ctx, lockKey(key), 1, lockTTL).Result()
	if err != nil {
		s.log.Error("failed to acquire dedup lock", slog.String("key", key), slog.Any("error", err))
		return false, err
	}

	return acquired, nil
}

func (s *RedisStore) ReleaseLock(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, lockKey(key)).Err(); err != nil {
		s.log.Error("failed to release dedup lock", slog.String("key", key), slog.Any("error", err))
		return err
	}

	return nil
}

func (s *RedisStore) Status(ctx context.Context, key string) (string, error) {
	status, err := s.client.Get(ctx, statusKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		s.log.Error("failed to read update status", slog.String("key", key), slog.Any("error", err))
		return "", err
	}

	return status, nil
}

// SetStatus writes the status and its expiry in one command.
func (s *RedisStore) SetStatus(ctx context.Context, key, status string, ttl time.Duration) error {
	if err := s.client.Set(ctx, statusKey(key), status, ttl).Err(); err != nil {
		s.log.Error("failed to store update status", slog.String("key", key), slog.Any("error", err))
		return err
	}

	return nil
}

func (s *RedisStore) Forget(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, statusKey(key)).Err(); err != nil {
		s.log.Error("failed to forget update", slog.String("key", key), slog.Any("error", err))
		return err
	}

	return nil
}

func statusKey(key string) string {
	return keyPrefix + key
}

func lockKey(key string) string {
	return keyPrefix + key + ":lock"
}
