package config

const (
	defaultServerPort = 8080

	defaultDatabaseMaxOpenConns = 10
	defaultDatabaseMaxIdleConns = 5

	defaultOutboxBatchSize  = 100
	defaultOutboxMaxRetries = 10
	defaultOutboxRateLimit  = 200.0
	defaultOutboxRateBurst  = 50
	defaultRetryMultiplier  = 2.0

	defaultWebhookMaxAttempts = 3

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "go-uow",

		"uow.transaction_behavior": "auto",
		"uow.isolation_level":      "",
		"uow.timeout":              "30s",
		"uow.drain_policy":         "local_first",

		"database.name":              "main",
		"database.driver":            "sqlite",
		"database.dsn":               "file:go-uow.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		"database.max_open_conns":    defaultDatabaseMaxOpenConns,
		"database.max_idle_conns":    defaultDatabaseMaxIdleConns,
		"database.conn_max_lifetime": "30m",
		"database.migrate":           true,

		"redis.enabled":        false,
		"redis.addr":           "localhost:6379",
		"redis.password":       "",
		"redis.db":             0,
		"redis.channel_prefix": "events.",

		"webhook.enabled":                false,
		"webhook.url":                    "",
		"webhook.timeout":                "5s",
		"webhook.max_attempts":           defaultWebhookMaxAttempts,
		"webhook.retry.initial_interval": "100ms",
		"webhook.retry.max_interval":     "2s",
		"webhook.retry.multiplier":       defaultRetryMultiplier,

		"outbox.enabled":                         false,
		"outbox.poll_interval":                   "1s",
		"outbox.batch_size":                      defaultOutboxBatchSize,
		"outbox.max_retries":                     defaultOutboxMaxRetries,
		"outbox.retention":                       "168h",
		"outbox.cleanup_schedule":                "@every 1h",
		"outbox.rate_limit":                      defaultOutboxRateLimit,
		"outbox.rate_burst":                      defaultOutboxRateBurst,
		"outbox.retry.initial_interval":          "500ms",
		"outbox.retry.max_interval":              "1m",
		"outbox.retry.multiplier":                defaultRetryMultiplier,
		"outbox.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"outbox.circuit_breaker.timeout":         "30s",
		"outbox.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
	}
}
