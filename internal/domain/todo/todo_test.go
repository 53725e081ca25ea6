package todo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jsamuelsen11/go-uow/internal/domain"
)

// requireValidationField is a test helper that asserts err wraps domain.ErrValidation
// and the resulting ValidationError contains the expected field key.
func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, got %v", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
	}
}

func validTodo() Todo {
	return Todo{
		ID:              1,
		Title:           "Buy groceries",
		Description:     "Milk, eggs, bread",
		Status:          StatusPending,
		Category:        CategoryPersonal,
		ProgressPercent: 0,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

func TestTodo_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*Todo)
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid todo passes",
			modify:  func(_ *Todo) {},
			wantErr: false,
		},
		{
			name:      "empty title fails",
			modify:    func(td *Todo) { td.Title = "" },
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "whitespace-only title fails",
			modify:    func(td *Todo) { td.Title = "   " },
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "empty description fails",
			modify:    func(td *Todo) { td.Description = "" },
			wantErr:   true,
			wantField: "description",
		},
		{
			name:      "whitespace-only description fails",
			modify:    func(td *Todo) { td.Description = "\t\n" },
			wantErr:   true,
			wantField: "description",
		},
		{
			name:      "invalid status fails",
			modify:    func(td *Todo) { td.Status = "completed" },
			wantErr:   true,
			wantField: "status",
		},
		{
			name:      "empty status fails",
			modify:    func(td *Todo) { td.Status = "" },
			wantErr:   true,
			wantField: "status",
		},
		{
			name:      "invalid category fails",
			modify:    func(td *Todo) { td.Category = "urgent" },
			wantErr:   true,
			wantField: "category",
		},
		{
			name:      "negative progress fails",
			modify:    func(td *Todo) { td.ProgressPercent = -1 },
			wantErr:   true,
			wantField: "progress_percent",
		},
		{
			name:      "progress over 100 fails",
			modify:    func(td *Todo) { td.ProgressPercent = 101 },
			wantErr:   true,
			wantField: "progress_percent",
		},
		{
			name:    "progress at boundary 0 passes",
			modify:  func(td *Todo) { td.ProgressPercent = 0 },
			wantErr: false,
		},
		{
			name: "progress at boundary 100 passes",
			modify: func(td *Todo) {
				td.ProgressPercent = 100
				td.Status = StatusDone
			},
			wantErr: false,
		},
		{
			name:    "all valid statuses accepted",
			modify:  func(td *Todo) { td.Status = StatusInProgress },
			wantErr: false,
		},
		{
			name:    "all valid categories accepted",
			modify:  func(td *Todo) { td.Category = CategoryWork },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			td := validTodo()
			tt.modify(&td)
			err := td.Validate()

			if tt.wantErr {
				requireValidationField(t, err, tt.wantField)
			} else if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestTodo_Validate_MultipleErrors(t *testing.T) {
	t.Parallel()

	td := Todo{
		Title:           "",
		Description:     "",
		Status:          "bad",
		Category:        "bad",
		ProgressPercent: 200,
	}

	err := td.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error with multiple failures")
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}

	expectedFields := []string{"title", "description", "status", "category", "progress_percent"}
	for _, field := range expectedFields {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
		}
	}

	if len(verr.Fields) != len(expectedFields) {
		t.Errorf("ValidationError.Fields has %d entries, want %d", len(verr.Fields), len(expectedFields))
	}
}

func TestValidationError_ErrorsIs(t *testing.T) {
	t.Parallel()

	verr := &domain.ValidationError{Fields: map[string]string{"title": domain.MsgRequired}}

	if !errors.Is(verr, domain.ErrValidation) {
		t.Error("errors.Is(ValidationError, ErrValidation) = false, want true")
	}

	// Wrapped further
	wrapped := fmt.Errorf("operation failed: %w", verr)
	if !errors.Is(wrapped, domain.ErrValidation) {
		t.Error("errors.Is(wrapped ValidationError, ErrValidation) = false, want true")
	}
}

func TestValidationError_ErrorsAs(t *testing.T) {
	t.Parallel()

	original := &domain.ValidationError{Fields: map[string]string{
		"title":       domain.MsgRequired,
		"description": domain.MsgRequired,
	}}

	wrapped := fmt.Errorf("operation failed: %w", original)

	var verr *domain.ValidationError
	if !errors.As(wrapped, &verr) {
		t.Fatal("errors.As(wrapped, *ValidationError) = false, want true")
	}

	if len(verr.Fields) != 2 {
		t.Errorf("ValidationError.Fields has %d entries, want 2", len(verr.Fields))
	}
	if verr.Fields["title"] != domain.MsgRequired {
		t.Errorf("Fields[\"title\"] = %q, want %q", verr.Fields["title"], domain.MsgRequired)
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	verr := &domain.ValidationError{Fields: map[string]string{"title": domain.MsgRequired}}
	got := verr.Error()

	if got == "" {
		t.Fatal("ValidationError.Error() returned empty string")
	}
	// Should contain the sentinel message prefix
	if !errors.Is(verr, domain.ErrValidation) {
		t.Error("should wrap ErrValidation")
	}
}

func TestSentinelErrors(t *testing.T) {
	t.Parallel()

	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", domain.ErrNotFound},
		{"ErrValidation", domain.ErrValidation},
		{"ErrConflict", domain.ErrConflict},
		{"ErrForbidden", domain.ErrForbidden},
		{"ErrUnavailable", domain.ErrUnavailable},
	}

	for _, tt := range sentinels {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Wrapping preserves identity
			wrapped := fmt.Errorf("context: %w", tt.err)
			if !errors.Is(wrapped, tt.err) {
				t.Errorf("errors.Is(wrapped, %s) = false", tt.name)
			}
		})
	}

	// All sentinels are distinct
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a.err, b.err) {
				t.Errorf("%s and %s should be distinct", a.name, b.name)
			}
		}
	}
}

func TestTodo_Apply(t *testing.T) {
	t.Parallel()

	td := validTodo()
	td.Apply(&Todo{Title: "renamed", ProgressPercent: 40})

	if td.Title != "renamed" {
		t.Errorf("Title = %q, want %q", td.Title, "renamed")
	}
	if td.ProgressPercent != 40 {
		t.Errorf("ProgressPercent = %d, want 40", td.ProgressPercent)
	}
	if td.Description == "" {
		t.Error("Description was cleared by a zero-value patch field")
	}
	if td.Status != StatusPending {
		t.Errorf("Status = %q, want unchanged %q", td.Status, StatusPending)
	}
}

func TestTodo_Complete(t *testing.T) {
	t.Parallel()

	td := validTodo()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := td.Complete(now); err != nil {
		t.Fatalf("Complete() = %v, want nil", err)
	}
	if td.Status != StatusDone {
		t.Errorf("Status = %q, want %q", td.Status, StatusDone)
	}
	if td.ProgressPercent != 100 {
		t.Errorf("ProgressPercent = %d, want 100", td.ProgressPercent)
	}
	if !td.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", td.UpdatedAt, now)
	}

	if err := td.Complete(now); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("second Complete() = %v, want ErrConflict", err)
	}
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	td := validTodo()
	td.ID = 7
	now := time.Now()

	ev := NewEvent(&td, now)
	if ev.TodoID != 7 || ev.Title != td.Title || ev.Status != td.Status {
		t.Errorf("NewEvent() = %+v, want snapshot of %+v", ev, td)
	}
	if !ev.OccurredAt.Equal(now) {
		t.Errorf("OccurredAt = %v, want %v", ev.OccurredAt, now)
	}
}
