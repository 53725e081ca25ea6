package todo

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/go-uow/internal/domain"
)

// Todo represents a task item with progress tracking.
type Todo struct {
	ID              int64
	Title           string
	Description     string
	Status          Status
	Category        Category
	ProgressPercent int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks business rules for the Todo entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with per-field details,
// or nil if all rules pass.
func (t *Todo) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(t.Title) == "" {
		fields["title"] = domain.MsgRequired
	}
	if strings.TrimSpace(t.Description) == "" {
		fields["description"] = domain.MsgRequired
	}
	if !t.Status.IsValid() {
		fields["status"] = invalidValue(string(t.Status))
	}
	if !t.Category.IsValid() {
		fields["category"] = invalidValue(string(t.Category))
	}
	if t.ProgressPercent < 0 || t.ProgressPercent > 100 {
		fields["progress_percent"] = fmt.Sprintf("must be 0-100, got %d", t.ProgressPercent)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Apply copies the non-zero fields of patch onto t.
func (t *Todo) Apply(patch *Todo) {
	if patch.Title != "" {
		t.Title = patch.Title
	}
	if patch.Description != "" {
		t.Description = patch.Description
	}
	if patch.Status != "" {
		t.Status = patch.Status
	}
	if patch.Category != "" {
		t.Category = patch.Category
	}
	if patch.ProgressPercent != 0 {
		t.ProgressPercent = patch.ProgressPercent
	}
}

// Complete marks the todo done at full progress. Completing a todo that is
// already done returns domain.ErrConflict.
func (t *Todo) Complete(now time.Time) error {
	if t.Status == StatusDone {
		return fmt.Errorf("todo %d is already done: %w", t.ID, domain.ErrConflict)
	}
	t.Status = StatusDone
	t.ProgressPercent = 100
	t.UpdatedAt = now
	return nil
}
