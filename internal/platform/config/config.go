// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import (
	"time"

	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	UOW       UOWConfig       `koanf:"uow"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Webhook   WebhookConfig   `koanf:"webhook"`
	Outbox    OutboxConfig    `koanf:"outbox"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// UOWConfig holds unit of work defaults.
type UOWConfig struct {
	// TransactionBehavior is one of auto, enabled or disabled. With auto,
	// HTTP requests other than GET, HEAD and OPTIONS are transactional.
	TransactionBehavior string        `koanf:"transaction_behavior"`
	IsolationLevel      string        `koanf:"isolation_level"`
	Timeout             time.Duration `koanf:"timeout"`
	DrainPolicy         string        `koanf:"drain_policy"`
}

// Defaults converts the section to unit of work defaults. Call it on a
// validated config; an unparsable isolation level maps to the driver default.
func (u *UOWConfig) Defaults() uow.Defaults {
	level, _ := uow.ParseIsolationLevel(u.IsolationLevel)
	return uow.Defaults{
		TransactionBehavior: uow.TransactionBehavior(u.TransactionBehavior),
		IsolationLevel:      level,
		Timeout:             u.Timeout,
	}
}

// DatabaseConfig holds SQL database settings.
type DatabaseConfig struct {
	// Name keys the database's handles inside a unit of work.
	Name            string        `koanf:"name"`
	Driver          string        `koanf:"driver"`
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	Migrate         bool          `koanf:"migrate"`
}

// RedisConfig holds message broker settings.
type RedisConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Addr          string `koanf:"addr"`
	Password      string `koanf:"password"`
	DB            int    `koanf:"db"`
	ChannelPrefix string `koanf:"channel_prefix"`
}

// WebhookConfig holds settings for delivering distributed events as HTTP
// POSTs. It is used when redis is disabled.
type WebhookConfig struct {
	Enabled     bool          `koanf:"enabled"`
	URL         string        `koanf:"url"`
	Timeout     time.Duration `koanf:"timeout"`
	MaxAttempts int           `koanf:"max_attempts"`
	Retry       RetryConfig   `koanf:"retry"`
}

// OutboxConfig holds durable outbox relay settings.
type OutboxConfig struct {
	Enabled         bool                 `koanf:"enabled"`
	PollInterval    time.Duration        `koanf:"poll_interval"`
	BatchSize       int                  `koanf:"batch_size"`
	MaxRetries      int                  `koanf:"max_retries"`
	Retention       time.Duration        `koanf:"retention"`
	CleanupSchedule string               `koanf:"cleanup_schedule"`
	RateLimit       float64              `koanf:"rate_limit"`
	RateBurst       int                  `koanf:"rate_burst"`
	Retry           RetryConfig          `koanf:"retry"`
	CircuitBreaker  CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// RetryConfig holds exponential backoff settings for failed deliveries.
type RetryConfig struct {
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}
