package idempotency

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrRequestInProgress is returned while another worker is handling the same update.
var ErrRequestInProgress = errors.New("update is already being handled")

const (
	lockTTL       = 5 * time.Minute
	retryInterval = 100 * time.Millisecond
)

// Operation handles one update.
type Operation func(ctx context.Context) error

// Result tells the caller whether the update had already been handled.
type Result struct {
	Duplicate bool
}

// Manager runs an operation at most once per key within ttl.
// A failed operation is forgotten so a redelivery runs it again.
type Manager interface {
	Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error)
}

type manager struct {
	store Store
	log   *slog.Logger
}

func NewManager(store Store, log *slog.Logger) Manager {
	if log == nil {
		log = slog.Default()
	}

	return &manager{store: store, log: log}
}

func (m *manager) Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if fn == nil {
		return nil, errors.New("operation fn cannot be nil")
	}

	for {
		locked, err := m.store.Lock(ctx, key, lockTTL)
		if err != nil {
			return nil, err
		}

		status, err := m.store.Status(ctx, key)
		if err != nil {
			if locked {
				m.release(ctx, key)
			}
			return nil, err
		}

		switch {
		case status == StatusCompleted:
			if locked {
				m.release(ctx, key)
			}
			return &Result{Duplicate: true}, nil
		case locked:
			return m.run(ctx, key, ttl, fn)
		case status == StatusProcessing:
			return nil, ErrRequestInProgress
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

func (m *manager) run(ctx context.Context, key string, ttl time.Duration, fn Operation) (*Result, error) {
	defer m.release(ctx, key)

	if err := m.store.SetStatus(ctx, key, StatusProcessing, lockTTL); err != nil {
		return nil, err
	}

	if err := fn(ctx); err != nil {
		if forgetErr := m.store.Forget(ctx, key); forgetErr != nil {
			m.log.Warn("failed to forget failed update", slog.String("key", key), slog.Any("error", forgetErr))
		}
		return nil, err
	}

	if err := m.store.SetStatus(ctx, key, StatusCompleted, ttl); err != nil {
		return nil, err
	}

	return &Result{}, nil
}

func (m *manager) release(ctx context.Context, key string) {
	if err := m.store.ReleaseLock(ctx, key); err != nil {
		m.log.Warn("failed to release dedup lock", slog.String("key", key), slog.Any("error", err))
	}
}
