// Package config provides configuration loading and validation utilities.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// legacyEnv maps config keys to the environment variables the bot has always been deployed with.
var legacyEnv = map[string][]string{
	"bot.token":           {"TG_TOKEN", "BOT_TOKEN"},
	"listennotes.api_key": {"LISTEN_NOTES_API_KEY", "LISTENNOTES_API_KEY"},
	"log.level":           {"LOGLEVEL", "LOG_LEVEL"},
}

// Load reads configuration from the optional YAML file for APP_ENV and environment variables,
// validates it, and returns the resulting Config together with the viper instance backing it.
func Load() (*Config, *viper.Viper, error) {
	env := Env()
	return LoadFile(Path(env), env)
}

// Env loads .env files into the environment and returns APP_ENV, defaulting to development.
func Env() string {
	// missing env files are fine, the environment may already be populated
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	return env
}

// Path returns the conventional config file location for env.
func Path(env string) string {
	return fmt.Sprintf("./configs/%s.yaml", env)
}

// LoadFile loads configuration from path, which may not exist, and validates all of it.
func LoadFile(path, env string) (*Config, *viper.Viper, error) {
	cfg, v, err := ReadFile(path, env)
	if err != nil {
		return nil, nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

// ReadFile loads configuration from path without validating it,
// for commands that need only one section.
func ReadFile(path, env string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env

	return &cfg, v, nil
}

// Validate checks a Config or any of its sections against its validate tags.
func Validate(section any) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(section); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// WatchLogLevel re-applies log.level whenever the config file changes on disk.
func WatchLogLevel(v *viper.Viper, level *slog.LevelVar, log *slog.Logger) {
	if v == nil || level == nil || v.ConfigFileUsed() == "" {
		return
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		next, err := ParseLevel(v.GetString("log.level"))
		if err != nil {
			if log != nil {
				log.Warn("ignoring invalid log level from config reload", slog.String("file", e.Name), slog.Any("error", err))
			}
			return
		}

		if level.Level() != next {
			level.Set(next)
			if log != nil {
				log.Info("log level reloaded", slog.String("level", next.String()))
			}
		}
	})
	v.WatchConfig()
}

// ParseLevel converts a textual level into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file.path", "")
	v.SetDefault("log.file.max_size_mb", 50)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 14)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("bot.token", "")
	v.SetDefault("bot.mode", "polling")
	v.SetDefault("bot.timeout", 10*time.Second)
	v.SetDefault("bot.webhook_listen", "")
	v.SetDefault("bot.webhook_url", "")
	v.SetDefault("bot.update_timeout", 30*time.Second)
	v.SetDefault("bot.dedup_ttl", 24*time.Hour)
	v.SetDefault("bot.session_ttl", time.Hour)
	v.SetDefault("bot.reject_stale_menus", false)
	v.SetDefault("bot.synchronous", false)

	v.SetDefault("listennotes.api_key", "")
	v.SetDefault("listennotes.base_url", "https://listen-api.listennotes.com/api/v2")
	v.SetDefault("listennotes.timeout", 15*time.Second)
	v.SetDefault("listennotes.page_size", 10)
	v.SetDefault("listennotes.languages", []string{"English", "Hebrew"})
	v.SetDefault("listennotes.only_in", "title,description")
	v.SetDefault("listennotes.sort_by_date", false)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 1)
	v.SetDefault("redis.pool_timeout", 4*time.Second)
	v.SetDefault("redis.idle_timeout", 5*time.Minute)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.min_retry_backoff", 8*time.Millisecond)
	v.SetDefault("redis.max_retry_backoff", 512*time.Millisecond)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")
	v.SetDefault("sentry.traces_sample_rate", 0.0)

	v.SetDefault("links.ttl", 24*time.Hour)
}
