package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/robfig/cron/v3"

	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Telemetry.validate(),
		c.UOW.validate(),
		c.Database.validate(),
		c.Redis.validate(),
		c.Webhook.validate(),
		c.Outbox.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}

func (u *UOWConfig) validate() error {
	var errs []error

	if !uow.TransactionBehavior(u.TransactionBehavior).IsValid() {
		errs = append(errs, fmt.Errorf(
			"uow.transaction_behavior must be one of: auto, enabled, disabled; got %q", u.TransactionBehavior))
	}
	if _, err := uow.ParseIsolationLevel(u.IsolationLevel); err != nil {
		errs = append(errs, fmt.Errorf("uow.isolation_level: %w", err))
	}
	if u.Timeout < 0 {
		errs = append(errs, errors.New("uow.timeout must not be negative"))
	}
	if !uow.DrainPolicy(u.DrainPolicy).IsValid() {
		errs = append(errs, fmt.Errorf(
			"uow.drain_policy must be one of: local_first, outbox_first; got %q", u.DrainPolicy))
	}

	return errors.Join(errs...)
}

func (d *DatabaseConfig) validate() error {
	var errs []error

	if d.Name == "" {
		errs = append(errs, errors.New("database.name must not be empty"))
	}
	switch d.Driver {
	case "sqlite", "postgres":
		// Valid drivers.
	default:
		errs = append(errs, fmt.Errorf("database.driver must be one of: sqlite, postgres; got %q", d.Driver))
	}
	if d.DSN == "" {
		errs = append(errs, errors.New("database.dsn must not be empty"))
	}
	if d.MaxOpenConns < 1 {
		errs = append(errs, fmt.Errorf("database.max_open_conns must be >= 1, got %d", d.MaxOpenConns))
	}

	return errors.Join(errs...)
}

func (r *RedisConfig) validate() error {
	if !r.Enabled {
		return nil
	}

	var errs []error

	if r.Addr == "" {
		errs = append(errs, errors.New("redis.addr must not be empty when redis is enabled"))
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db must not be negative, got %d", r.DB))
	}

	return errors.Join(errs...)
}

func (w *WebhookConfig) validate() error {
	if !w.Enabled {
		return nil
	}

	var errs []error

	if u, err := url.Parse(w.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("webhook.url must be an absolute URL, got %q", w.URL))
	}
	if w.Timeout <= 0 {
		errs = append(errs, errors.New("webhook.timeout must be positive"))
	}
	if w.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("webhook.max_attempts must be >= 1, got %d", w.MaxAttempts))
	}
	if w.Retry.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("webhook.retry.multiplier must be >= 1, got %g", w.Retry.Multiplier))
	}

	return errors.Join(errs...)
}

func (o *OutboxConfig) validate() error {
	if !o.Enabled {
		return nil
	}

	var errs []error

	if o.PollInterval <= 0 {
		errs = append(errs, errors.New("outbox.poll_interval must be positive"))
	}
	if o.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("outbox.batch_size must be >= 1, got %d", o.BatchSize))
	}
	if o.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("outbox.max_retries must be >= 1, got %d", o.MaxRetries))
	}
	if o.CleanupSchedule != "" {
		if _, err := cron.ParseStandard(o.CleanupSchedule); err != nil {
			errs = append(errs, fmt.Errorf("outbox.cleanup_schedule: %w", err))
		}
	}
	if o.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("outbox.rate_limit must be positive, got %g", o.RateLimit))
	}
	if o.Retry.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("outbox.retry.multiplier must be >= 1, got %g", o.Retry.Multiplier))
	}
	if o.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("outbox.circuit_breaker.max_failures must be >= 1, got %d",
			o.CircuitBreaker.MaxFailures))
	}

	return errors.Join(errs...)
}
