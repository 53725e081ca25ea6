package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-uow/internal/platform/config"
	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
	"github.com/jsamuelsen11/go-uow/internal/platform/retry"
	"github.com/jsamuelsen11/go-uow/internal/ports"
)

// Headers set on every webhook delivery.
const (
	HeaderEventType     = "X-Event-Type"
	HeaderMessageID     = "X-Message-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// ErrRejected is returned when the endpoint answers with a non-retryable
// status. Retrying the same message will not change the answer.
var ErrRejected = errors.New("webhook rejected message")

// Compile-time interface check.
var _ ports.EventBroker = (*Webhook)(nil)

// Webhook POSTs each message as JSON to a fixed URL. Transient failures
// (network errors, 429 and 5xx) are retried with exponential backoff;
// receivers should deduplicate on X-Message-ID.
type Webhook struct {
	client      *http.Client
	url         string
	maxAttempts int
	retry       config.RetryConfig
}

// NewWebhook returns a publisher for cfg.
func NewWebhook(cfg config.WebhookConfig) *Webhook {
	return NewWebhookWithClient(&http.Client{Timeout: cfg.Timeout}, cfg)
}

// NewWebhookWithClient returns a publisher sending through client.
func NewWebhookWithClient(client *http.Client, cfg config.WebhookConfig) *Webhook {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Webhook{
		client:      client,
		url:         cfg.URL,
		maxAttempts: attempts,
		retry:       cfg.Retry,
	}
}

// Publish implements [ports.EventBroker].
func (w *Webhook) Publish(ctx context.Context, msg ports.BrokerMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding broker message %s: %w", msg.ID, err)
	}

	ctx, span := otel.GetTracerProvider().Tracer("broker").Start(ctx, "webhook "+msg.EventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "webhook"),
			attribute.String("messaging.message.id", msg.ID),
			attribute.String("event.type", msg.EventType),
		),
	)
	defer span.End()

	var lastErr error
	for attempt := range w.maxAttempts {
		if attempt > 0 {
			delay := retry.Backoff(attempt, w.retry)
			logging.FromContext(ctx).WarnContext(ctx, "retrying webhook delivery",
				slog.String("operation", "broker.Webhook.Publish"),
				slog.String("message_id", msg.ID),
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", w.maxAttempts),
				slog.Duration("backoff", delay),
				slog.Any("error", lastErr),
			)
			if err := retry.Wait(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}

		var transient bool
		transient, lastErr = w.send(ctx, msg, body)
		if lastErr == nil {
			span.SetAttributes(attribute.Int("messaging.attempts", attempt+1))
			logging.FromContext(ctx).DebugContext(ctx, "published distributed event",
				slog.String("url", w.url),
				slog.String("message_id", msg.ID),
			)
			return nil
		}
		if !transient {
			break
		}
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return fmt.Errorf("publishing %s to webhook: %w", msg.ID, lastErr)
}

// send performs one delivery and reports whether a failure is transient.
func (w *Webhook) send(ctx context.Context, msg ports.BrokerMessage, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEventType, msg.EventType)
	req.Header.Set(HeaderMessageID, msg.ID)
	if msg.CorrelationID != "" {
		req.Header.Set(HeaderCorrelationID, msg.CorrelationID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := w.client.Do(req)
	if err != nil {
		return retry.IsRetryable(err), err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusMultipleChoices {
		return false, nil
	}
	if retry.IsRetryableStatus(resp.StatusCode) {
		return true, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return false, fmt.Errorf("HTTP %d: %w", resp.StatusCode, ErrRejected)
}
