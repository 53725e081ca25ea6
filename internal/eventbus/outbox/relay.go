package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/go-uow/internal/platform/config"
	"github.com/jsamuelsen11/go-uow/internal/platform/retry"
	"github.com/jsamuelsen11/go-uow/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-uow/internal/ports"
)

// Compile-time interface check.
var _ ports.HealthChecker = (*Relay)(nil)

// Relay delivers pending outbox records to the broker in order. A batch
// stops at the first record that fails or is not yet due, so a record is
// never delivered ahead of an earlier one that is still retrying.
type Relay struct {
	store   *Store
	broker  ports.EventBroker
	cfg     config.OutboxConfig
	breaker *gobreaker.CircuitBreaker[struct{}]
	limiter *rate.Limiter
	metrics *telemetry.Metrics
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	lastErr error
}

// RelayOption configures a Relay.
type RelayOption func(*Relay)

// WithRelayClock overrides the relay's time source.
func WithRelayClock(now func() time.Time) RelayOption {
	return func(r *Relay) { r.now = now }
}

// WithRelayMetrics records one relay counter increment per delivery
// attempt. A nil value records nothing.
func WithRelayMetrics(m *telemetry.Metrics) RelayOption {
	return func(r *Relay) { r.metrics = m }
}

// NewRelay returns a relay moving records from store to broker.
func NewRelay(store *Store, broker ports.EventBroker, cfg config.OutboxConfig, logger *slog.Logger, opts ...RelayOption) *Relay {
	r := &Relay{
		store:  store,
		broker: broker,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "outbox-relay",
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	if cfg.RateLimit > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}
	return r
}

// Run relays batches every poll interval and purges processed records on
// the cleanup schedule until ctx is canceled.
func (r *Relay) Run(ctx context.Context) error {
	scheduler := cron.New()
	if r.cfg.CleanupSchedule != "" {
		if _, err := scheduler.AddFunc(r.cfg.CleanupSchedule, func() { r.cleanup(ctx) }); err != nil {
			return fmt.Errorf("scheduling outbox cleanup: %w", err)
		}
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	r.logger.Info("outbox relay started",
		slog.Duration("poll_interval", r.cfg.PollInterval),
		slog.Int("batch_size", r.cfg.BatchSize),
	)

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn("outbox relay pass failed",
					slog.String("operation", "Relay.Run"),
					slog.Any("error", err),
				)
			}
		}
	}
}

// RelayOnce delivers one batch and returns how many records were
// delivered. A delivery failure is recorded on the record and ends the
// batch, unless the record has used up its retries. Only store errors are
// returned.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	records, err := r.store.FetchPending(ctx, r.cfg.BatchSize)
	if err != nil {
		r.setLastErr(err)
		return 0, err
	}

	delivered := 0
	for i := range records {
		rec := &records[i]
		if rec.DueAt().After(r.now()) {
			break
		}

		if err := r.deliver(ctx, rec); err != nil {
			if ctx.Err() != nil {
				return delivered, ctx.Err()
			}
			gaveUp, markErr := r.fail(ctx, rec, err)
			if markErr != nil {
				r.setLastErr(markErr)
				return delivered, markErr
			}
			r.setLastErr(err)
			if gaveUp {
				continue
			}
			return delivered, nil
		}

		if err := r.store.MarkProcessed(ctx, rec.ID, r.now()); err != nil {
			r.setLastErr(err)
			return delivered, err
		}
		delivered++
	}

	r.setLastErr(nil)
	return delivered, nil
}

func (r *Relay) deliver(ctx context.Context, rec *Record) error {
	_, err := r.breaker.Execute(func() (struct{}, error) {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, r.broker.Publish(ctx, rec.Message())
	})
	r.record(ctx, rec, err)
	return err
}

func (r *Relay) fail(ctx context.Context, rec *Record, cause error) (bool, error) {
	if errors.Is(cause, gobreaker.ErrOpenState) || errors.Is(cause, gobreaker.ErrTooManyRequests) {
		// The broker was never called; the attempt does not count.
		return false, nil
	}

	retryAt := r.now().Add(retry.Backoff(rec.Attempts+1, r.cfg.Retry))
	gaveUp, err := r.store.MarkFailed(ctx, rec, cause, retryAt, r.cfg.MaxRetries)
	if err != nil {
		return false, err
	}

	level := slog.LevelWarn
	msg := "outbox delivery failed, will retry"
	if gaveUp {
		level = slog.LevelError
		msg = "outbox delivery failed, giving up"
	}
	r.logger.Log(ctx, level, msg,
		slog.String("operation", "Relay.RelayOnce"),
		slog.String("outbox_id", rec.ID),
		slog.String("event_type", rec.EventType),
		slog.Int("attempt", rec.Attempts+1),
		slog.Time("retry_at", retryAt),
		slog.Any("error", cause),
	)
	return gaveUp, nil
}

func (r *Relay) cleanup(ctx context.Context) {
	cutoff := r.now().Add(-r.cfg.Retention)
	n, err := r.store.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		r.logger.Warn("outbox cleanup failed",
			slog.String("operation", "Relay.cleanup"),
			slog.Any("error", err),
		)
		return
	}
	if n > 0 {
		r.logger.Info("purged processed outbox records",
			slog.Int64("count", n),
			slog.Time("cutoff", cutoff),
		)
	}
}

func (r *Relay) record(ctx context.Context, rec *Record, err error) {
	if r.metrics == nil {
		return
	}

	result := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "circuit_open"
	case err != nil:
		result = "error"
	}

	r.metrics.OutboxRelayTotal.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrEventType.String(rec.EventType),
		telemetry.AttrResult.String(result),
	))
}

func (r *Relay) setLastErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err
}

// Name implements [ports.HealthChecker].
func (r *Relay) Name() string {
	return "outbox-relay"
}

// HealthCheck implements [ports.HealthChecker]. It reports the breaker
// state and the outcome of the last relay pass without touching the broker.
func (r *Relay) HealthCheck(context.Context) error {
	switch state := r.breaker.State(); state {
	case gobreaker.StateClosed:
	case gobreaker.StateHalfOpen:
		return errors.New("outbox-relay: degraded (circuit breaker half-open)")
	case gobreaker.StateOpen:
		return errors.New("outbox-relay: failing (circuit breaker open)")
	default:
		return fmt.Errorf("outbox-relay: unknown circuit breaker state %v", state)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastErr != nil {
		return fmt.Errorf("outbox-relay: last pass failed: %w", r.lastErr)
	}
	return nil
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
