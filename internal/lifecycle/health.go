package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/Proton-105/podcast-bot/internal/health"
)

// ErrDraining is returned by Readiness once shutdown has begun.
var ErrDraining = errors.New("shutting down")

// HealthChecker exposes liveness and readiness probes.
type HealthChecker interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

// Probes answers liveness unconditionally and readiness from the registered component checks.
type Probes struct {
	log      *slog.Logger
	checker  *health.Checker
	draining atomic.Bool
}

// NewProbes creates a new Probes instance. A nil checker makes readiness depend on draining only.
func NewProbes(log *slog.Logger, checker *health.Checker) *Probes {
	if log == nil {
		log = slog.Default()
	}
	return &Probes{log: log, checker: checker}
}

// Liveness reports that the process is running.
func (p *Probes) Liveness(ctx context.Context) error {
	p.log.Debug("liveness probe called")
	return nil
}

// Readiness fails while draining or when any component check fails.
func (p *Probes) Readiness(ctx context.Context) error {
	if p.draining.Load() {
		return ErrDraining
	}
	if p.checker == nil {
		return nil
	}

	results := p.checker.Check(ctx)
	if health.Healthy(results) {
		return nil
	}

	failed := make([]string, 0, len(results))
	for name, status := range results {
		if status != health.StatusOK {
			failed = append(failed, fmt.Sprintf("%s: %s", name, status))
		}
	}
	sort.Strings(failed)

	return errors.New(strings.Join(failed, "; "))
}

// Components returns the per-component statuses behind Readiness.
func (p *Probes) Components(ctx context.Context) map[string]string {
	if p.checker == nil {
		return map[string]string{}
	}
	return p.checker.Check(ctx)
}

// Drain marks the process as not ready so load balancers stop routing webhooks to it.
func (p *Probes) Drain() {
	if !p.draining.Swap(true) {
		p.log.Info("readiness switched to draining")
	}
}
