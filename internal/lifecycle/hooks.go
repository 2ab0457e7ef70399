package lifecycle

import (
	"context"
	"time"
)

// Stage orders shutdown. Every hook of a stage returns before the next stage starts.
type Stage int

const (
	// StageIngress stops new work from arriving: the Telegram poller and the ops server.
	StageIngress Stage = iota
	// StageBackends closes what in-flight updates were still using, such as Redis.
	StageBackends
)

// Hook describes a named shutdown hook.
type Hook struct {
	Name  string
	Stage Stage
	Fn    func(ctx context.Context) error
	// Timeout bounds the hook on top of the Execute deadline. Zero means no extra bound.
	Timeout time.Duration
}
