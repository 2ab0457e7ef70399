package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_DefaultsAndLegacyEnv(t *testing.T) {
	t.Setenv("TG_TOKEN", "123:abc")
	t.Setenv("LISTEN_NOTES_API_KEY", "ln-key")
	t.Setenv("LOGLEVEL", "debug")

	cfg, v, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), "test")
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "test", cfg.AppEnv)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "ln-key", cfg.ListenNotes.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "polling", cfg.Bot.Mode)
	assert.Equal(t, time.Hour, cfg.Bot.SessionTTL)
	assert.Equal(t, []string{"English", "Hebrew"}, cfg.ListenNotes.Languages)
	assert.Equal(t, "title,description", cfg.ListenNotes.OnlyIn)
	assert.Equal(t, 10, cfg.ListenNotes.PageSize)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadFile_YAMLAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staging.yaml")
	yaml := []byte(`
bot:
  token: from-file
  session_ttl: 30m
  reject_stale_menus: true
listennotes:
  api_key: file-key
  page_size: 5
redis:
  addr: localhost:6380
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("LISTENNOTES_PAGE_SIZE", "3")

	cfg, _, err := LoadFile(path, "staging")
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Bot.Token)
	assert.Equal(t, 30*time.Minute, cfg.Bot.SessionTTL)
	assert.True(t, cfg.Bot.RejectStaleMenus)
	assert.Equal(t, 3, cfg.ListenNotes.PageSize)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoadFile_MissingSecrets(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoadFile_WebhookRequiresURL(t *testing.T) {
	t.Setenv("TG_TOKEN", "123:abc")
	t.Setenv("LISTEN_NOTES_API_KEY", "ln-key")
	t.Setenv("BOT_MODE", "webhook")

	_, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), "test")
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadFile_ValidateSection(t *testing.T) {
	t.Setenv("LISTEN_NOTES_API_KEY", "ln-key")

	cfg, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"), "test")
	require.NoError(t, err)

	assert.NoError(t, Validate(cfg.ListenNotes))
	assert.ErrorContains(t, Validate(cfg), "Token")
}
