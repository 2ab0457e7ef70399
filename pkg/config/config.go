package config

import "time"

// Config holds runtime configuration for the podcast bot.
type Config struct {
	AppEnv string `mapstructure:"app_env"`

	Log         LogConfig         `mapstructure:"log"`
	Bot         BotConfig         `mapstructure:"bot"`
	ListenNotes ListenNotesConfig `mapstructure:"listennotes"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Server      ServerConfig      `mapstructure:"server"`
	Sentry      SentryConfig      `mapstructure:"sentry"`
	Links       LinksConfig       `mapstructure:"links"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Level  string        `mapstructure:"level" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	Format string        `mapstructure:"format" validate:"oneof=text json"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables a rotating log file next to stdout.
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// BotConfig describes the Telegram side.
type BotConfig struct {
	Token            string        `mapstructure:"token" validate:"required"`
	Mode             string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"gt=0"`
	WebhookListen    string        `mapstructure:"webhook_listen" validate:"required_if=Mode webhook"`
	WebhookURL       string        `mapstructure:"webhook_url" validate:"required_if=Mode webhook"`
	UpdateTimeout    time.Duration `mapstructure:"update_timeout" validate:"gt=0"`
	DedupTTL         time.Duration `mapstructure:"dedup_ttl" validate:"gt=0"`
	SessionTTL       time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	RejectStaleMenus bool          `mapstructure:"reject_stale_menus"`
	Synchronous      bool          `mapstructure:"synchronous"`
}

// ListenNotesConfig configures the podcast search provider.
type ListenNotesConfig struct {
	APIKey     string        `mapstructure:"api_key" validate:"required"`
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	PageSize   int           `mapstructure:"page_size" validate:"gte=1,lte=10"`
	Languages  []string      `mapstructure:"languages" validate:"min=1"`
	OnlyIn     string        `mapstructure:"only_in"`
	SortByDate bool          `mapstructure:"sort_by_date"`
}

// RedisConfig enables Redis-backed sessions, link references and update deduplication.
// An empty Addr keeps everything in process memory.
type RedisConfig struct {
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db" validate:"gte=0"`
	PoolSize        int           `mapstructure:"pool_size" validate:"gte=0"`
	MinIdleConns    int           `mapstructure:"min_idle_conns" validate:"gte=0"`
	PoolTimeout     time.Duration `mapstructure:"pool_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	MinRetryBackoff time.Duration `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff time.Duration `mapstructure:"max_retry_backoff"`
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// ServerConfig configures the ops HTTP server (health and metrics).
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	DSN              string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment      string  `mapstructure:"environment"`
	TracesSampleRate float64 `mapstructure:"traces_sample_rate" validate:"gte=0,lte=1"`
}

// LinksConfig controls how long oversized episode links stay resolvable.
type LinksConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

