package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
	"github.com/jsamuelsen11/go-uow/internal/ports"
	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// Compile-time interface check.
var _ uow.EventPublisher = (*Publisher)(nil)

// ErrNoOutbox is returned when a record asks for the outbox and none is
// configured.
var ErrNoOutbox = errors.New("eventbus: outbox not configured")

// PropertyCorrelationID is the record property carrying the correlation ID
// of the request that raised a distributed event.
const PropertyCorrelationID = "correlation_id"

type correlationIDKey struct{}

// WithCorrelationID stores id in ctx. Distributed events raised under ctx
// carry it to the broker.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Outbox stages distributed records for the relay. The store enlists in the
// ambient unit, so staged records commit with the unit's transaction.
type Outbox interface {
	Add(ctx context.Context, messages []ports.BrokerMessage) error
}

// Publisher implements [uow.EventPublisher].
type Publisher struct {
	local  *LocalBus
	broker ports.EventBroker
	outbox Outbox
	orders *uow.OrderGenerator
	now    func() time.Time
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithOutbox routes records marked UseOutbox to o.
func WithOutbox(o Outbox) PublisherOption {
	return func(p *Publisher) { p.outbox = o }
}

// WithOrderGenerator sets the generator used to order events raised through
// PublishLocal and PublishDistributed. The process-wide generator is used
// otherwise.
func WithOrderGenerator(g *uow.OrderGenerator) PublisherOption {
	return func(p *Publisher) { p.orders = g }
}

// WithClock overrides the time source stamped on broker messages.
func WithClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) { p.now = now }
}

// NewPublisher returns a publisher delivering local events to local and
// direct distributed events to broker. A nil broker drops direct
// distributed events with a warning.
func NewPublisher(local *LocalBus, broker ports.EventBroker, opts ...PublisherOption) *Publisher {
	p := &Publisher{local: local, broker: broker, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishLocalEvents implements [uow.EventPublisher].
func (p *Publisher) PublishLocalEvents(ctx context.Context, records []*uow.EventRecord) error {
	return p.local.Publish(ctx, records)
}

// PublishDistributedEvents implements [uow.EventPublisher]. Records keep
// their order: consecutive outbox records are staged together and direct
// records are sent one by one in between.
func (p *Publisher) PublishDistributedEvents(ctx context.Context, records []*uow.EventRecord) error {
	var batch []ports.BrokerMessage
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if p.outbox == nil {
			return ErrNoOutbox
		}
		err := p.outbox.Add(ctx, batch)
		batch = nil
		if err != nil {
			return fmt.Errorf("staging outbox records: %w", err)
		}
		return nil
	}

	for _, r := range records {
		msg, err := p.message(r)
		if err != nil {
			return err
		}

		if r.UseOutbox {
			batch = append(batch, msg)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		if err := p.send(ctx, msg); err != nil {
			return err
		}
	}
	return flush()
}

func (p *Publisher) send(ctx context.Context, msg ports.BrokerMessage) error {
	if p.broker == nil {
		logging.FromContext(ctx).WarnContext(ctx, "no broker configured, dropping distributed event",
			slog.String("operation", "Publisher.PublishDistributedEvents"),
			slog.String("event_type", msg.EventType),
		)
		return nil
	}
	if err := p.broker.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publishing %s: %w", msg.EventType, err)
	}
	return nil
}

func (p *Publisher) message(r *uow.EventRecord) (ports.BrokerMessage, error) {
	payload, err := encode(r.Data)
	if err != nil {
		return ports.BrokerMessage{}, fmt.Errorf("encoding %s: %w", r.EventType, err)
	}
	corrID, _ := r.Properties[PropertyCorrelationID].(string)
	return ports.BrokerMessage{
		ID:            uuid.NewString(),
		EventType:     r.EventType,
		Order:         r.Order(),
		CorrelationID: corrID,
		Payload:       payload,
		OccurredAt:    p.now().UTC(),
	}, nil
}

func encode(data any) ([]byte, error) {
	switch v := data.(type) {
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

// EventOption configures an event raised through PublishLocal or
// PublishDistributed.
type EventOption func(*eventOptions)

type eventOptions struct {
	outbox     bool
	replaces   uow.ReplacePredicate
	properties map[string]any
}

// ViaOutbox stages a distributed event in the durable outbox.
func ViaOutbox() EventOption {
	return func(o *eventOptions) { o.outbox = true }
}

// Replacing makes the event replace the first queued event matching pred.
func Replacing(pred uow.ReplacePredicate) EventOption {
	return func(o *eventOptions) { o.replaces = pred }
}

// WithProperty attaches a property to the event record.
func WithProperty(key string, value any) EventOption {
	return func(o *eventOptions) {
		if o.properties == nil {
			o.properties = make(map[string]any)
		}
		o.properties[key] = value
	}
}

// PublishLocal raises a local event on the ambient unit, or delivers it
// immediately when there is none.
func (p *Publisher) PublishLocal(ctx context.Context, eventType string, data any, opts ...EventOption) error {
	record, o := p.record(eventType, data, false, opts)
	if u := uow.CurrentByChecking(ctx); u != nil {
		u.AddOrReplaceLocalEvent(record, o.replaces)
		return nil
	}
	return p.PublishLocalEvents(ctx, []*uow.EventRecord{record})
}

// PublishDistributed raises a distributed event on the ambient unit, or
// delivers it immediately when there is none. The correlation ID in ctx, if
// any, is attached unless opts set one.
func (p *Publisher) PublishDistributed(ctx context.Context, eventType string, data any, opts ...EventOption) error {
	if id := CorrelationIDFromContext(ctx); id != "" {
		opts = append([]EventOption{WithProperty(PropertyCorrelationID, id)}, opts...)
	}
	record, o := p.record(eventType, data, true, opts)
	if u := uow.CurrentByChecking(ctx); u != nil {
		u.AddOrReplaceDistributedEvent(record, o.replaces)
		return nil
	}
	return p.PublishDistributedEvents(ctx, []*uow.EventRecord{record})
}

func (p *Publisher) record(eventType string, data any, distributed bool, opts []EventOption) (*uow.EventRecord, eventOptions) {
	var o eventOptions
	for _, opt := range opts {
		opt(&o)
	}

	var order int64
	if p.orders != nil {
		order = p.orders.Next()
	} else {
		order = uow.NextEventOrder()
	}

	record := uow.NewEventRecord(eventType, data, order, distributed && o.outbox)
	for k, v := range o.properties {
		record.Properties[k] = v
	}
	return record, o
}
