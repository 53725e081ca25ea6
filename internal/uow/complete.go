package uow

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-uow/internal/platform/telemetry"
)

const tracerName = "github.com/jsamuelsen11/go-uow/internal/uow"

// Complete finishes the unit: it saves changes, drains both event queues
// until no handler raises further events, commits every transaction handle
// in registration order and runs completion callbacks.
//
// Complete on a rolled-back unit is a no-op. Calling it again, or from
// inside its own drain, returns ErrAlreadyCompleting. Any other failure is
// captured so that Dispose raises the failed notification with it.
func (u *UnitOfWork) Complete(ctx context.Context) (err error) {
	u.mu.Lock()
	if u.rolledBack {
		u.mu.Unlock()
		return nil
	}
	if u.completing || u.completed {
		u.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyCompleting, u)
	}
	u.completing = true
	u.mu.Unlock()

	start := time.Now()
	ctx = WithCurrent(ctx, u)
	ctx, span := otel.Tracer(tracerName).Start(ctx, "uow.Complete",
		trace.WithAttributes(attribute.String("uow.id", u.id.String())),
	)
	defer func() {
		if err != nil {
			u.mu.Lock()
			u.err = err
			u.mu.Unlock()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if u.metrics != nil {
			u.metrics.UnitCompleteDuration.Record(ctx, time.Since(start).Seconds(),
				metric.WithAttributes(telemetry.AttrResult.String(resultLabel(err))),
			)
		}
		span.End()
	}()

	if err = u.SaveChanges(ctx); err != nil {
		return err
	}
	if err = u.drainEvents(ctx); err != nil {
		return err
	}
	if err = u.commitTransactions(ctx); err != nil {
		return err
	}

	u.mu.Lock()
	u.completed = true
	handlers := slices.Clone(u.completedHandlers)
	u.mu.Unlock()

	for _, h := range handlers {
		if err = h(ctx); err != nil {
			return fmt.Errorf("running completion callback: %w", err)
		}
	}
	return nil
}

// drainEvents publishes queued events in passes. Each pass materializes the
// pending records, publishes them sorted by order and saves the changes the
// handlers made. Records raised by handlers are picked up by the next pass.
func (u *UnitOfWork) drainEvents(ctx context.Context) error {
	span := trace.SpanFromContext(ctx)

	for pass := 1; ; pass++ {
		u.mu.Lock()
		if u.rolledBack {
			u.mu.Unlock()
			return ErrRolledBack
		}
		u.localEvents = materialize(u.localEvents, u.pendingLocal)
		u.distributedEvents = materialize(u.distributedEvents, u.pendingDistributed)
		u.pendingLocal, u.pendingDistributed = nil, nil

		local, distributed := u.localEvents, u.distributedEvents
		u.localEvents, u.distributedEvents = nil, nil
		u.mu.Unlock()

		if len(local) == 0 && len(distributed) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		sortByOrder(local)
		sortByOrder(distributed)
		span.AddEvent("uow.drain.pass", trace.WithAttributes(
			attribute.Int("uow.drain.pass", pass),
			attribute.Int("uow.events.local", len(local)),
			attribute.Int("uow.events.distributed", len(distributed)),
		))

		if err := u.publish(ctx, local, distributed); err != nil {
			return err
		}
		if err := u.SaveChanges(ctx); err != nil {
			return err
		}
	}
}

func (u *UnitOfWork) publish(ctx context.Context, local, distributed []*EventRecord) error {
	publishLocal := func() error {
		if len(local) == 0 {
			return nil
		}
		if u.publisher == nil {
			return errNoPublisher
		}
		if err := u.publisher.PublishLocalEvents(ctx, local); err != nil {
			return fmt.Errorf("publishing local events: %w", err)
		}
		u.recordPublished(ctx, "local", len(local))
		return nil
	}
	publishDistributed := func() error {
		if len(distributed) == 0 {
			return nil
		}
		if u.publisher == nil {
			return errNoPublisher
		}
		if err := u.publisher.PublishDistributedEvents(ctx, distributed); err != nil {
			return fmt.Errorf("publishing distributed events: %w", err)
		}
		u.recordPublished(ctx, "distributed", len(distributed))
		return nil
	}

	steps := []func() error{publishLocal, publishDistributed}
	if u.drain == DrainOutboxFirst {
		steps = []func() error{publishDistributed, publishLocal}
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// commitTransactions commits every transaction handle in registration
// order. Cancellation stops between handles, so earlier handles may already
// be committed.
func (u *UnitOfWork) commitTransactions(ctx context.Context) error {
	u.mu.Lock()
	rolledBack := u.rolledBack
	u.mu.Unlock()
	if rolledBack {
		return ErrRolledBack
	}

	for _, tx := range u.transactions.all() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}
	}
	return nil
}

func (u *UnitOfWork) recordPublished(ctx context.Context, channel string, n int) {
	if u.metrics == nil {
		return
	}
	u.metrics.EventsPublishedTotal.Add(ctx, int64(n),
		metric.WithAttributes(telemetry.AttrEventChannel.String(channel)),
	)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
