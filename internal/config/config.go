package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Retention RetentionConfig `mapstructure:"retention"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

// Telegram bot configuration
type BotConfig struct {
	Token string `mapstructure:"token"`
	// ChannelID is the single monitored channel; forwards from any other
	// chat are rejected.
	ChannelID int64 `mapstructure:"channel_id"`
	// ReplyOnRejected controls whether a forward from a non-monitored chat
	// gets an explanatory reply or is ignored silently.
	ReplyOnRejected bool          `mapstructure:"reply_on_rejected"`
	Notify          NotifyConfig  `mapstructure:"notify"`
	Webhook         WebhookConfig `mapstructure:"webhook"`
}

// deletion notification recipient; UserID takes priority over Username
type NotifyConfig struct {
	UserID   int64  `mapstructure:"user_id"`
	Username string `mapstructure:"username"`
}

// webhook server configuration; long polling is used when Endpoint is empty
type WebhookConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	ListenPort string `mapstructure:"listen_port"`
	CertFile   string `mapstructure:"cert_file"`
	KeyFile    string `mapstructure:"key_file"`
}

// message retention settings
type RetentionConfig struct {
	DeleteAfterMinutes   int `mapstructure:"delete_after_minutes"`
	CheckIntervalMinutes int `mapstructure:"check_interval_minutes"`
	PruneAfterDays       int `mapstructure:"prune_after_days"`
}

// DeleteAfter returns the retention duration applied to new records.
func (r RetentionConfig) DeleteAfter() time.Duration {
	return time.Duration(r.DeleteAfterMinutes) * time.Minute
}

// CheckInterval returns the sweep cadence.
func (r RetentionConfig) CheckInterval() time.Duration {
	return time.Duration(r.CheckIntervalMinutes) * time.Minute
}

// PruneAfter returns the grace period for stale-record pruning.
func (r RetentionConfig) PruneAfter() time.Duration {
	return time.Duration(r.PruneAfterDays) * 24 * time.Hour
}

// logging configuration
type LoggerConfig struct {
	Directory string `mapstructure:"directory"`
	// File overrides the dated file path derived from Directory when set.
	File     string            `mapstructure:"file"`
	Rotation LogRotationConfig `mapstructure:"rotation"`
	Level    string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

type DatabaseConfig struct {
	// Driver selects the storage backend: "sqlite" (default) or "mysql".
	Driver string `mapstructure:"driver"`
	// Path is the sqlite database file location.
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// Load reads configuration from the optional YAML file at configPath and
// from the environment. Environment variables override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the options the bot cannot run without.
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot token is required (bot.token / BOT_TOKEN)")
	}
	if c.Bot.ChannelID == 0 {
		return fmt.Errorf("monitored channel is required (bot.channel_id / CHANNEL_ID)")
	}
	if c.Retention.DeleteAfterMinutes <= 0 {
		return fmt.Errorf("retention.delete_after_minutes must be positive")
	}
	if c.Retention.CheckIntervalMinutes <= 0 {
		return fmt.Errorf("retention.check_interval_minutes must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.reply_on_rejected", true)
	v.SetDefault("bot.webhook.listen_port", "8443")
	v.SetDefault("bot.webhook.cert_file", "")
	v.SetDefault("bot.webhook.key_file", "")

	// 60 days retention, 12 hour sweep cadence, 7 day prune grace
	v.SetDefault("retention.delete_after_minutes", 86400)
	v.SetDefault("retention.check_interval_minutes", 720)
	v.SetDefault("retention.prune_after_days", 7)

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "messages.db")
	v.SetDefault("database.charset", "utf8mb4")
}

// bindEnv maps the flat environment option names to config keys so the bot
// can run without a config file.
func bindEnv(v *viper.Viper) {
	envKeys := map[string]string{
		"bot.token":                        "BOT_TOKEN",
		"bot.channel_id":                   "CHANNEL_ID",
		"bot.notify.user_id":               "USER_ID",
		"bot.notify.username":              "USER_USERNAME",
		"database.path":                    "DATABASE_PATH",
		"retention.delete_after_minutes":   "DELETE_AFTER_MINUTES",
		"retention.check_interval_minutes": "CHECK_INTERVAL_MINUTES",
		"logger.level":                     "LOG_LEVEL",
		"logger.file":                      "LOG_FILE",
	}

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			log.Printf("Warning: failed to bind %s: %v", env, err)
		}
	}
}
