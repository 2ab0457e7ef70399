package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	storage := NewMemoryStorage(time.Minute)
	storage.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, storage.SetState(ctx, 1, &Session{ChatID: 1, State: StateAwaitingPodcastChoice}))

	got, err := storage.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingPodcastChoice, got.State)

	now = now.Add(2 * time.Minute)

	_, err = storage.GetState(ctx, 1)
	assert.ErrorIs(t, err, ErrStateNotFound)

	all, err := storage.GetAllStates(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.Equal(t, 1, storage.purgeExpired())
	assert.Equal(t, 0, storage.purgeExpired())
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	storage := NewMemoryStorage(time.Hour)
	ctx := context.Background()

	original := &Session{ChatID: 9, State: StateAwaitingQuery, Query: "serial"}
	require.NoError(t, storage.SetState(ctx, 9, original))
	original.Query = "mutated"

	got, err := storage.GetState(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "serial", got.Query)

	got.Query = "changed again"
	again, err := storage.GetState(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "serial", again.Query)
}

func TestCleaner_RunStopsOnCancel(t *testing.T) {
	storage := NewMemoryStorage(time.Millisecond)
	require.NoError(t, storage.SetState(context.Background(), 1, &Session{ChatID: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	cleaner := NewCleaner(storage, testLogger(), 5*time.Millisecond)
	go func() {
		cleaner.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		storage.mu.RLock()
		defer storage.mu.RUnlock()
		return len(storage.sessions) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleaner did not stop")
	}
}
