// Package broker publishes distributed events to Redis pub/sub channels or
// to an HTTP webhook.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/jsamuelsen11/go-uow/internal/platform/config"
	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
	"github.com/jsamuelsen11/go-uow/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EventBroker   = (*Redis)(nil)
	_ ports.HealthChecker = (*Redis)(nil)
)

// Redis publishes each message as JSON on the channel named by the
// configured prefix followed by the event type.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects a publisher using cfg. The connection is established
// lazily; use HealthCheck to verify it.
func NewRedis(cfg config.RedisConfig) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisWithClient(client, cfg.ChannelPrefix)
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Channel returns the channel eventType is published on.
func (r *Redis) Channel(eventType string) string {
	return r.prefix + eventType
}

// Publish implements [ports.EventBroker].
func (r *Redis) Publish(ctx context.Context, msg ports.BrokerMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding broker message %s: %w", msg.ID, err)
	}

	channel := r.Channel(msg.EventType)
	receivers, err := r.client.Publish(ctx, channel, body).Result()
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", channel, err)
	}

	logging.FromContext(ctx).DebugContext(ctx, "published distributed event",
		slog.String("channel", channel),
		slog.String("message_id", msg.ID),
		slog.Int64("receivers", receivers),
	)
	return nil
}

// Name implements [ports.HealthChecker].
func (r *Redis) Name() string {
	return "redis"
}

// HealthCheck implements [ports.HealthChecker].
func (r *Redis) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
