package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Proton-105/podcast-bot/internal/bot"
	"github.com/Proton-105/podcast-bot/internal/health"
	"github.com/Proton-105/podcast-bot/internal/i18n"
	"github.com/Proton-105/podcast-bot/internal/idempotency"
	"github.com/Proton-105/podcast-bot/internal/lifecycle"
	"github.com/Proton-105/podcast-bot/internal/linkstore"
	"github.com/Proton-105/podcast-bot/internal/ops"
	"github.com/Proton-105/podcast-bot/internal/state"
	"github.com/Proton-105/podcast-bot/pkg/config"
	"github.com/Proton-105/podcast-bot/pkg/graceful"
	"github.com/Proton-105/podcast-bot/pkg/logger"
	"github.com/Proton-105/podcast-bot/pkg/metrics"
	pkgredis "github.com/Proton-105/podcast-bot/pkg/redis"
)

const (
	sessionCleanupInterval = time.Minute
	dedupCleanupInterval   = time.Hour
	stateCollectInterval   = 30 * time.Second
	sentryFlushTimeout     = 2 * time.Second
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the ops HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, v, err := opts.read()
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			level, err := config.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}

			log, levelVar, closer := logger.New(logger.Options{
				Level:  level,
				Format: cfg.Log.Format,
				File: logger.FileOptions{
					Path:       cfg.Log.File.Path,
					MaxSizeMB:  cfg.Log.File.MaxSizeMB,
					MaxBackups: cfg.Log.File.MaxBackups,
					MaxAgeDays: cfg.Log.File.MaxAgeDays,
					Compress:   cfg.Log.File.Compress,
				},
				SentryEnabled: cfg.Sentry.Enabled,
			})
			defer closeQuietly(closer)

			config.WatchLogLevel(v, levelVar, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, *cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	log.Info("starting podcast bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("version", Version),
		slog.Bool("redis", cfg.Redis.Enabled()),
	)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			Release:          Version,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(sentryFlushTimeout)
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdown := lifecycle.NewShutdown(log)
	checker := health.NewChecker(log)

	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		client, err := pkgredis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		shutdown.RegisterHook(lifecycle.Hook{
			Name:  "redis",
			Stage: lifecycle.StageBackends,
			Fn:    func(context.Context) error { return client.Close() },
		})

		rdb = client.Client
		checker.AddCheck("redis", health.NewRedisChecker(rdb))
	}

	sessions, links, dedup := stores(ctx, cfg, rdb, log)

	catalog, err := i18n.Load()
	if err != nil {
		return fmt.Errorf("load message catalog: %w", err)
	}

	gateway := newGateway(cfg.ListenNotes, log)

	b, err := bot.New(cfg, log, bot.Deps{
		Searcher:    gateway,
		Episodes:    gateway,
		Links:       links,
		Sessions:    sessions,
		Idempotency: dedup,
		Translator:  catalog,
	})
	if err != nil {
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))

	go metrics.NewStateCollector(sessions, stateCollectInterval, log).Run(ctx)

	probes := lifecycle.NewProbes(log, checker)
	opsServer := graceful.NewServer(log, cfg.Server.Addr, ops.NewRouter(probes, Version, log), cfg.Server.ShutdownTimeout)

	opsErr := make(chan error, 1)
	go func() { opsErr <- opsServer.ListenAndServe(ctx) }()

	shutdown.RegisterHook(lifecycle.Hook{
		Name:    "ops-server",
		Timeout: cfg.Server.ShutdownTimeout,
		Fn: func(ctx context.Context) error {
			select {
			case err := <-opsErr:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	shutdown.Register("telegram", func(context.Context) error {
		b.Stop()
		return nil
	})

	go b.Start()

	select {
	case <-ctx.Done():
	case err := <-opsErr:
		// put it back for the shutdown hook
		opsErr <- err
		if err != nil {
			log.Error("ops server stopped", slog.Any("error", err))
		}
	}

	probes.Drain()
	log.Info("shutting down podcast bot")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// stores picks Redis-backed sessions, link references and update deduplication when a client is
// available and falls back to process memory otherwise. Background cleaners stop with ctx.
func stores(ctx context.Context, cfg config.Config, rdb *goredis.Client, log *slog.Logger) (state.StateMachine, linkstore.Store, idempotency.Manager) {
	if rdb != nil {
		sessions := state.NewStateMachine(state.NewRedisStorage(rdb, log, cfg.Bot.SessionTTL), log, rdb)
		links := linkstore.NewRedisStore(rdb, log, cfg.Links.TTL)
		dedup := idempotency.NewManager(idempotency.NewRedisStore(rdb, log), log)

		go idempotency.NewCleaner(rdb, log, dedupCleanupInterval, cfg.Bot.DedupTTL).Run(ctx)

		return sessions, links, dedup
	}

	memory := state.NewMemoryStorage(cfg.Bot.SessionTTL)
	go state.NewCleaner(memory, log, sessionCleanupInterval).Run(ctx)

	return state.NewStateMachine(memory, log, nil), linkstore.NewMemoryStore(cfg.Links.TTL), nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
