package idempotency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*RedisStore, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, testLogger()), client, mr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManager_ExecutesOnce(t *testing.T) {
	store, client, _ := setupStore(t)
	m := NewManager(store, testLogger())
	ctx := context.Background()

	var calls int32
	op := func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}

	first, err := m.Execute(ctx, MessageKey(1, 5), time.Hour, op)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := m.Execute(ctx, MessageKey(1, 5), time.Hour, op)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, StatusCompleted, client.Get(ctx, "dedup:msg:1:5").Val())
	assert.Zero(t, client.Exists(ctx, "dedup:msg:1:5:lock").Val())

	ttl := client.TTL(ctx, "dedup:msg:1:5").Val()
	assert.True(t, ttl > 0 && ttl <= time.Hour, "ttl %v", ttl)
}

func TestManager_FailedOperationCanRetry(t *testing.T) {
	store, client, _ := setupStore(t)
	m := NewManager(store, testLogger())
	ctx := context.Background()

	boom := errors.New("listen notes unavailable")
	_, err := m.Execute(ctx, CallbackKey("42"), time.Hour, func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, client.Exists(ctx, "dedup:cb:42").Val())

	result, err := m.Execute(ctx, CallbackKey("42"), time.Hour, func(context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
}

func TestManager_ConcurrentDuplicate(t *testing.T) {
	store, _, _ := setupStore(t)
	m := NewManager(store, testLogger())
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := m.Execute(ctx, "update-3", time.Hour, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
		assert.NoError(t, err)
	}()

	<-started
	_, err := m.Execute(ctx, "update-3", time.Hour, func(context.Context) error {
		t.Error("duplicate must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrRequestInProgress)

	close(release)
	wg.Wait()
}

func TestManager_NilOperation(t *testing.T) {
	store, _, _ := setupStore(t)
	_, err := NewManager(store, nil).Execute(context.Background(), "k", time.Hour, nil)
	assert.Error(t, err)
}

func TestManager_StoreUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, testLogger())

	_, err := NewManager(store, testLogger()).Execute(context.Background(), "k", time.Hour, func(context.Context) error {
		t.Error("operation must not run without the store")
		return nil
	})
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "cb:abc", CallbackKey("abc"))
	assert.Equal(t, "msg:-100:7", MessageKey(-100, 7))
	assert.NotEqual(t, MessageKey(1, 7), MessageKey(2, 7))
}

func TestCleaner_RemovesStaleKeys(t *testing.T) {
	_, client, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "dedup:no-ttl", "x", 0).Err())
	require.NoError(t, client.Set(ctx, "dedup:fresh", "x", time.Hour).Err())
	require.NoError(t, client.Set(ctx, "dedup:too-long", "x", 48*time.Hour).Err())
	require.NoError(t, client.Set(ctx, "session:1", "x", 0).Err())

	NewCleaner(client, testLogger(), time.Minute, 25*time.Hour).cleanup(ctx)

	assert.Zero(t, client.Exists(ctx, "dedup:no-ttl").Val())
	assert.Zero(t, client.Exists(ctx, "dedup:too-long").Val())
	assert.Equal(t, int64(1), client.Exists(ctx, "dedup:fresh").Val())
	assert.Equal(t, int64(1), client.Exists(ctx, "session:1").Val())
}
