package middleware

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Unit outcomes reported by Recovery, OpenTelemetry and Logging.
const (
	// OutcomeNone means the request never reached UnitOfWork.
	OutcomeNone = "none"
	// OutcomeAborted means the handler panicked after the unit was reserved.
	OutcomeAborted       = "aborted"
	OutcomeUninitialized = "uninitialized"
	// OutcomeDiscarded means the handler answered with a status of 400 or
	// more and the unit was disposed without completing.
	OutcomeDiscarded = "discarded"
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// UnitOutcome is the request-scoped record of what happened to the request's
// unit of work. Outer middleware creates it; UnitOfWork and BeginUnit fill
// it in. Safe for concurrent use, since Timeout runs the handler on its own
// goroutine.
type UnitOutcome struct {
	mu            sync.Mutex
	id            uuid.UUID
	transactional bool
	result        string
	err           error
}

type unitOutcomeKey struct{}

// ensureUnitOutcome returns ctx carrying an outcome slot, reusing one an
// outer middleware already installed.
func ensureUnitOutcome(ctx context.Context) (context.Context, *UnitOutcome) {
	if o := UnitOutcomeFromContext(ctx); o != nil {
		return ctx, o
	}
	o := &UnitOutcome{result: OutcomeNone}
	return context.WithValue(ctx, unitOutcomeKey{}, o), o
}

// UnitOutcomeFromContext returns the request's outcome slot, or nil.
func UnitOutcomeFromContext(ctx context.Context) *UnitOutcome {
	o, _ := ctx.Value(unitOutcomeKey{}).(*UnitOutcome)
	return o
}

func (o *UnitOutcome) reserved(id uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.id = id
	o.result = OutcomeAborted
}

func (o *UnitOutcome) begun(transactional bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transactional = transactional
}

func (o *UnitOutcome) settle(result string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.result = result
	o.err = err
}

// ID returns the unit id, or uuid.Nil when no unit was reserved.
func (o *UnitOutcome) ID() uuid.UUID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.id
}

// Result returns one of the Outcome constants.
func (o *UnitOutcome) Result() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Err returns the completion error of a failed unit.
func (o *UnitOutcome) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Transactional reports whether the unit was begun transactionally.
func (o *UnitOutcome) Transactional() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transactional
}

// LogAttrs returns the outcome as log attributes. The unit id is omitted
// when no unit was reserved.
func (o *UnitOutcome) LogAttrs() []any {
	o.mu.Lock()
	defer o.mu.Unlock()

	attrs := make([]any, 0, 3)
	if o.id != uuid.Nil {
		attrs = append(attrs, slog.String("uow_id", o.id.String()))
	}
	attrs = append(attrs, slog.String("uow_outcome", o.result))
	if o.err != nil {
		attrs = append(attrs, slog.Any("uow_error", o.err))
	}
	return attrs
}
