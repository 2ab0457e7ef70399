package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Shutdown stops the bot stage by stage. Hooks within a stage run concurrently.
type Shutdown struct {
	mu    sync.Mutex
	hooks []Hook
	log   *slog.Logger
}

func NewShutdown(log *slog.Logger) *Shutdown {
	if log == nil {
		log = slog.Default()
	}

	return &Shutdown{log: log}
}

// Register adds an ingress hook.
func (s *Shutdown) Register(name string, fn func(context.Context) error) {
	s.RegisterHook(Hook{Name: name, Stage: StageIngress, Fn: fn})
}

func (s *Shutdown) RegisterHook(h Hook) {
	if h.Fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// Execute runs every stage in order, even after a failed one, and joins the hook failures
// as "name: error" sorted by name.
func (s *Shutdown) Execute(ctx context.Context) error {
	s.mu.Lock()
	hooks := append([]Hook(nil), s.hooks...)
	s.mu.Unlock()

	sort.SliceStable(hooks, func(i, j int) bool { return hooks[i].Stage < hooks[j].Stage })

	start := time.Now()
	s.log.Info("shutdown sequence started", slog.Int("hook_count", len(hooks)))

	var failures []string
	for i := 0; i < len(hooks); {
		j := i
		for j < len(hooks) && hooks[j].Stage == hooks[i].Stage {
			j++
		}
		failures = append(failures, s.runStage(ctx, hooks[i:j])...)
		i = j
	}

	s.log.Info("shutdown sequence finished", slog.Duration("elapsed", time.Since(start)))

	if len(failures) == 0 {
		return nil
	}
	sort.Strings(failures)
	return errors.New(strings.Join(failures, "; "))
}

func (s *Shutdown) runStage(ctx context.Context, hooks []Hook) []string {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []string
	)

	for _, h := range hooks {
		wg.Add(1)
		go func(h Hook) {
			defer wg.Done()

			if err := s.run(ctx, h); err != nil {
				s.log.Error("shutdown hook failed", slog.String("hook", h.Name), slog.Any("error", err))
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", h.Name, err))
				mu.Unlock()
				return
			}
			s.log.Debug("shutdown hook completed", slog.String("hook", h.Name))
		}(h)
	}

	wg.Wait()
	return failures
}

func (s *Shutdown) run(ctx context.Context, h Hook) error {
	if h.Timeout <= 0 {
		return h.Fn(ctx)
	}

	hookCtx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()
	return h.Fn(hookCtx)
}
