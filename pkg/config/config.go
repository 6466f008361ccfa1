package config

import "time"

// Config holds runtime configuration for the shop assistant.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Logger   LoggerConfig   `mapstructure:"logger" validate:"required"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Bot      BotConfig      `mapstructure:"bot"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	Catalog  CatalogConfig  `mapstructure:"catalog" validate:"required"`
	Dialogue DialogueConfig `mapstructure:"dialogue" validate:"required"`
	Intent   IntentConfig   `mapstructure:"intent"`
}

// ServerConfig configures the inbound HTTP listener.
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggerConfig controls log level, format, and optional file rotation.
type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"required,oneof=text json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// SentryConfig enables error reporting to Sentry.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

// BotConfig configures the optional Telegram surface. The bot is not started
// when the token is empty.
type BotConfig struct {
	Token   string        `mapstructure:"token"`
	Mode    string        `mapstructure:"mode" validate:"omitempty,oneof=polling webhook"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig configures the session storage backend. When Addr is empty the
// in-memory backend is used instead.
type RedisConfig struct {
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	PoolTimeout     time.Duration `mapstructure:"pool_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	MinRetryBackoff time.Duration `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff time.Duration `mapstructure:"max_retry_backoff"`
}

// StoreConfig selects and configures the order record store backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=file postgres"`
	// File backend.
	Path string `mapstructure:"path" validate:"required_if=Backend file"`
	// Postgres backend.
	DBHost        string `mapstructure:"db_host" validate:"required_if=Backend postgres"`
	DBPort        string `mapstructure:"db_port"`
	DBUser        string `mapstructure:"db_user"`
	DBPassword    string `mapstructure:"db_password"`
	DBName        string `mapstructure:"db_name"`
	DBSSLMode     string `mapstructure:"db_sslmode"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// CatalogConfig points at the product retrieval service.
type CatalogConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DialogueConfig tunes the dialogue facade and session lifecycle.
type DialogueConfig struct {
	FallbackURL     string        `mapstructure:"fallback_url" validate:"required,url"`
	FallbackTimeout time.Duration `mapstructure:"fallback_timeout" validate:"required"`
	SessionTTL      time.Duration `mapstructure:"session_ttl" validate:"required"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"required"`
}

// IntentConfig overrides the built-in order intent keyword set.
type IntentConfig struct {
	Keywords []string `mapstructure:"keywords"`
}

// DSN returns the PostgreSQL connection string for the postgres store backend.
func (s StoreConfig) DSN() string {
	return "host=" + s.DBHost +
		" port=" + s.DBPort +
		" user=" + s.DBUser +
		" password=" + s.DBPassword +
		" dbname=" + s.DBName +
		" sslmode=" + s.DBSSLMode
}
