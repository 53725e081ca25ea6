// Package outbox stages distributed events in the database inside the
// unit of work that raised them, and relays them to the message broker
// after the unit commits.
package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jsamuelsen11/go-uow/internal/adapters/sqlstore"
	"github.com/jsamuelsen11/go-uow/internal/eventbus"
	"github.com/jsamuelsen11/go-uow/internal/platform/database"
	"github.com/jsamuelsen11/go-uow/internal/ports"
)

// Compile-time interface check.
var _ eventbus.Outbox = (*Store)(nil)

// Status is the delivery state of an outbox record.
type Status string

// Record statuses.
const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"

	// StatusFailed marks a record that exhausted its retries. The relay
	// skips it.
	StatusFailed Status = "failed"
)

// Record is a staged distributed event.
type Record struct {
	ID            string `db:"id"`
	Seq           int64  `db:"seq"`
	EventType     string `db:"event_type"`
	CorrelationID string `db:"correlation_id"`
	Payload       []byte `db:"payload"`
	Status        Status `db:"status"`
	Attempts      int    `db:"attempts"`
	LastError     string `db:"last_error"`
	NextAttemptAt int64  `db:"next_attempt_at"`
	CreatedAt     int64  `db:"created_at"`
	ProcessedAt   *int64 `db:"processed_at"`
}

// Message converts the record back to the broker message it was staged from.
func (r *Record) Message() ports.BrokerMessage {
	return ports.BrokerMessage{
		ID:            r.ID,
		EventType:     r.EventType,
		Order:         r.Seq,
		CorrelationID: r.CorrelationID,
		Payload:       r.Payload,
		OccurredAt:    database.FromMillis(r.CreatedAt),
	}
}

// DueAt returns when the record may next be delivered.
func (r *Record) DueAt() time.Time {
	return database.FromMillis(r.NextAttemptAt)
}

// Store reads and writes the outbox table through provider's sessions, so
// Add joins the ambient unit's transaction.
type Store struct {
	provider *sqlstore.Provider
}

// NewStore returns a store on provider's database.
func NewStore(provider *sqlstore.Provider) *Store {
	return &Store{provider: provider}
}

// Add implements [eventbus.Outbox].
func (s *Store) Add(ctx context.Context, messages []ports.BrokerMessage) error {
	session, err := s.provider.Session(ctx)
	if err != nil {
		return err
	}

	for _, m := range messages {
		_, err := session.Exec(ctx,
			`INSERT INTO outbox (id, seq, event_type, correlation_id, payload, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.Order, m.EventType, m.CorrelationID, m.Payload, string(StatusPending), database.ToMillis(m.OccurredAt),
		)
		if err != nil {
			return fmt.Errorf("staging %s: %w", m.EventType, err)
		}
	}
	return nil
}

// FetchPending returns up to limit pending records in delivery order,
// including records still waiting out a retry delay.
func (s *Store) FetchPending(ctx context.Context, limit int) ([]Record, error) {
	session, err := s.provider.Session(ctx)
	if err != nil {
		return nil, err
	}

	var records []Record
	err = session.Select(ctx, &records,
		`SELECT id, seq, event_type, correlation_id, payload, status, attempts, last_error, next_attempt_at, created_at, processed_at
		   FROM outbox
		  WHERE status = ?
		  ORDER BY created_at, seq
		  LIMIT ?`,
		string(StatusPending), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching pending outbox records: %w", err)
	}
	return records, nil
}

// MarkProcessed records a successful delivery.
func (s *Store) MarkProcessed(ctx context.Context, id string, at time.Time) error {
	session, err := s.provider.Session(ctx)
	if err != nil {
		return err
	}

	_, err = session.Exec(ctx,
		`UPDATE outbox SET status = ?, processed_at = ? WHERE id = ?`,
		string(StatusProcessed), database.ToMillis(at), id,
	)
	if err != nil {
		return fmt.Errorf("marking outbox record %s processed: %w", id, err)
	}
	return nil
}

// MarkFailed records a failed delivery. The record stays pending until
// retry, or becomes failed once maxRetries attempts have been made. It
// reports whether the record was given up on.
func (s *Store) MarkFailed(ctx context.Context, r *Record, cause error, retryAt time.Time, maxRetries int) (bool, error) {
	session, err := s.provider.Session(ctx)
	if err != nil {
		return false, err
	}

	attempts := r.Attempts + 1
	status := StatusPending
	if attempts >= maxRetries {
		status = StatusFailed
	}

	_, err = session.Exec(ctx,
		`UPDATE outbox SET status = ?, attempts = ?, last_error = ?, next_attempt_at = ? WHERE id = ?`,
		string(status), attempts, cause.Error(), database.ToMillis(retryAt), r.ID,
	)
	if err != nil {
		return false, fmt.Errorf("marking outbox record %s failed: %w", r.ID, err)
	}
	return status == StatusFailed, nil
}

// DeleteProcessedBefore purges processed records older than cutoff and
// returns how many were removed.
func (s *Store) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	session, err := s.provider.Session(ctx)
	if err != nil {
		return 0, err
	}

	res, err := session.Exec(ctx,
		`DELETE FROM outbox WHERE status = ? AND processed_at < ?`,
		string(StatusProcessed), database.ToMillis(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("purging processed outbox records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged outbox records: %w", err)
	}
	return n, nil
}

// CountByStatus returns the number of records in status.
func (s *Store) CountByStatus(ctx context.Context, status Status) (int64, error) {
	session, err := s.provider.Session(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := session.Get(ctx, &n, `SELECT COUNT(*) FROM outbox WHERE status = ?`, string(status)); err != nil {
		return 0, fmt.Errorf("counting %s outbox records: %w", status, err)
	}
	return n, nil
}
