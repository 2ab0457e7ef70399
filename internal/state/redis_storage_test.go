package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStorage_SetAndGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger(), time.Hour)

	ctx := context.Background()
	session := &Session{
		ChatID:        123,
		State:         StateAwaitingEpisodeChoice,
		MenuMessageID: 55,
		Query:         "serial",
		PodcastID:     "abc",
	}

	err := storage.SetState(ctx, session.ChatID, session)
	assert.NoError(t, err)

	result, err := storage.GetState(ctx, session.ChatID)
	assert.NoError(t, err)
	if assert.NotNil(t, result) {
		assert.Equal(t, session.ChatID, result.ChatID)
		assert.Equal(t, session.State, result.State)
		assert.Equal(t, session.MenuMessageID, result.MenuMessageID)
		assert.Equal(t, session.Query, result.Query)
		assert.Equal(t, session.PodcastID, result.PodcastID)
		assert.False(t, result.UpdatedAt.IsZero())
	}

	ttl := client.TTL(ctx, redisSessionKey(session.ChatID)).Val()
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisStorage_GetNotFound(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger(), time.Hour)

	session, err := storage.GetState(context.Background(), 999)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStorage_ClearState(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger(), time.Hour)

	ctx := context.Background()
	session := &Session{ChatID: 456, State: StateAwaitingPodcastChoice}

	require.NoError(t, storage.SetState(ctx, session.ChatID, session))
	require.NoError(t, storage.ClearState(ctx, session.ChatID))

	result, err := storage.GetState(ctx, session.ChatID)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStorage_GetAllStates(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger(), time.Hour)
	ctx := context.Background()

	require.NoError(t, storage.SetState(ctx, 1, &Session{ChatID: 1, State: StateAwaitingPodcastChoice}))
	require.NoError(t, storage.SetState(ctx, 2, &Session{ChatID: 2, State: StateDone}))
	require.NoError(t, client.Set(ctx, "session:3", "not json", 0).Err())

	sessions, err := storage.GetAllStates(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
