package state

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner removes expired sessions from a MemoryStorage on a schedule.
// Redis-backed sessions expire on their own.
type Cleaner struct {
	storage  *MemoryStorage
	log      *slog.Logger
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(storage *MemoryStorage, log *slog.Logger, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}

	return &Cleaner{
		storage:  storage,
		log:      log,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.storage == nil {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("session cleaner stopped", slog.Any("reason", ctx.Err()))
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *Cleaner) cleanup() {
	if removed := c.storage.purgeExpired(); removed > 0 {
		c.log.Debug("expired sessions cleared", slog.Int("count", removed))
	}
}
