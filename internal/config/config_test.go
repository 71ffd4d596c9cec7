package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_ID", "-1001234567890")
	t.Setenv("USER_ID", "4242")
	t.Setenv("DATABASE_PATH", "/tmp/messages.db")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, int64(-1001234567890), cfg.Bot.ChannelID)
	assert.Equal(t, int64(4242), cfg.Bot.Notify.UserID)
	assert.Equal(t, "/tmp/messages.db", cfg.Database.Path)
	assert.Equal(t, "DEBUG", cfg.Logger.Level)

	// defaults: 60 day retention, 12 hour cadence, 7 day prune grace
	assert.Equal(t, 60*24*time.Hour, cfg.Retention.DeleteAfter())
	assert.Equal(t, 12*time.Hour, cfg.Retention.CheckInterval())
	assert.Equal(t, 7*24*time.Hour, cfg.Retention.PruneAfter())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Bot.ReplyOnRejected)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHANNEL_ID", "")

	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
bot:
  token: "456:def"
  channel_id: -1009999
  reply_on_rejected: false
  notify:
    username: "operator"
retention:
  delete_after_minutes: 1440
  check_interval_minutes: 60
database:
  driver: sqlite
  path: data/messages.db
`), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "456:def", cfg.Bot.Token)
	assert.Equal(t, int64(-1009999), cfg.Bot.ChannelID)
	assert.False(t, cfg.Bot.ReplyOnRejected)
	assert.Equal(t, "operator", cfg.Bot.Notify.Username)
	assert.Equal(t, 24*time.Hour, cfg.Retention.DeleteAfter())
	assert.Equal(t, time.Hour, cfg.Retention.CheckInterval())
	assert.Equal(t, "data/messages.db", cfg.Database.Path)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("CHANNEL_ID", "-42")
	t.Setenv("DELETE_AFTER_MINUTES", "10")

	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
bot:
  token: "file-token"
  channel_id: -1009999
`), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Bot.Token)
	assert.Equal(t, int64(-42), cfg.Bot.ChannelID)
	assert.Equal(t, 10*time.Minute, cfg.Retention.DeleteAfter())
}

func TestValidation(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHANNEL_ID", "")

	_, err := Load("")
	assert.ErrorContains(t, err, "bot token is required")

	t.Setenv("BOT_TOKEN", "123:abc")
	_, err = Load("")
	assert.ErrorContains(t, err, "monitored channel is required")
}
