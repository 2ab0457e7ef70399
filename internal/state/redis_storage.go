package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPattern  = "session:%d"
	sessionScanPattern = "session:*"
	scanBatchCount     = 100
)

// RedisStorage persists chat sessions in Redis with a sliding TTL.
type RedisStorage struct {
	client *redis.Client
	log    *slog.Logger
	ttl    time.Duration
}

// NewRedisStorage initializes a Redis-backed Storage implementation.
func NewRedisStorage(client *redis.Client, log *slog.Logger, ttl time.Duration) Storage {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &RedisStorage{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

// GetState returns the stored session or ErrStateNotFound when absent or expired.
func (s *RedisStorage) GetState(ctx context.Context, chatID int64) (*Session, error) {
	key := redisSessionKey(chatID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}

		s.log.Error("failed to get session from redis", "chat_id", chatID, "error", err)
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		s.log.Error("failed to decode session", "chat_id", chatID, "error", err)
		return nil, err
	}

	return &session, nil
}

// SetState saves the provided session and refreshes its TTL.
func (s *RedisStorage) SetState(ctx context.Context, chatID int64, session *Session) error {
	session.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(session)
	if err != nil {
		s.log.Error("failed to encode session", "chat_id", chatID, "error", err)
		return err
	}

	if err := s.client.Set(ctx, redisSessionKey(chatID), data, s.ttl).Err(); err != nil {
		s.log.Error("failed to save session in redis", "chat_id", chatID, "error", err)
		return err
	}

	return nil
}

// ClearState removes the stored session for the given chat.
func (s *RedisStorage) ClearState(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, redisSessionKey(chatID)).Err(); err != nil {
		s.log.Error("failed to clear session", "chat_id", chatID, "error", err)
		return err
	}

	return nil
}

// GetAllStates retrieves every stored session by scanning Redis keys.
func (s *RedisStorage) GetAllStates(ctx context.Context) ([]*Session, error) {
	var (
		cursor uint64
		result []*Session
	)

	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, sessionScanPattern, scanBatchCount).Result()
		if err != nil {
			s.log.Error("failed to scan sessions", "error", err)
			return nil, err
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}

				s.log.Error("failed to fetch session", "key", key, "error", err)
				return nil, err
			}

			var session Session
			if err := json.Unmarshal([]byte(data), &session); err != nil {
				s.log.Error("failed to decode session", "key", key, "error", err)
				continue
			}

			copied := session
			result = append(result, &copied)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return result, nil
}

func redisSessionKey(chatID int64) string {
	return fmt.Sprintf(sessionKeyPattern, chatID)
}
