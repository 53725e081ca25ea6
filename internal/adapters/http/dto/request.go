package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsamuelsen11/go-uow/internal/domain"
	"github.com/jsamuelsen11/go-uow/internal/domain/todo"
)

const msgMustNotEmpty = "must not be empty"

// CreateTodoRequest is the JSON body of POST /todos. Status and category
// default to pending and personal.
type CreateTodoRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Status          string `json:"status,omitempty"`
	Category        string `json:"category,omitempty"`
	ProgressPercent int    `json:"progress_percent,omitempty"`
}

// Todo maps the request onto a new todo with defaults applied.
func (r *CreateTodoRequest) Todo() *todo.Todo {
	t := &todo.Todo{
		Title:           r.Title,
		Description:     r.Description,
		Status:          todo.StatusPending,
		Category:        todo.CategoryPersonal,
		ProgressPercent: r.ProgressPercent,
	}
	if r.Status != "" {
		t.Status = todo.Status(r.Status)
	}
	if r.Category != "" {
		t.Category = todo.Category(r.Category)
	}
	return t
}

// Validate applies the entity rules to the mapped todo.
func (r *CreateTodoRequest) Validate() error {
	return r.Todo().Validate()
}

// UpdateTodoRequest is the JSON body of PUT /todos/{id}. Nil fields are left
// unchanged.
type UpdateTodoRequest struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	Status          *string `json:"status,omitempty"`
	Category        *string `json:"category,omitempty"`
	ProgressPercent *int    `json:"progress_percent,omitempty"`
}

// Todo maps the request onto a patch; unset fields stay zero.
func (r *UpdateTodoRequest) Todo() *todo.Todo {
	t := &todo.Todo{}
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Status != nil {
		t.Status = todo.Status(*r.Status)
	}
	if r.Category != nil {
		t.Category = todo.Category(*r.Category)
	}
	if r.ProgressPercent != nil {
		t.ProgressPercent = *r.ProgressPercent
	}
	return t
}

// Validate checks the fields that are present.
func (r *UpdateTodoRequest) Validate() error {
	fields := make(map[string]string)

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		fields["title"] = msgMustNotEmpty
	}
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		fields["description"] = msgMustNotEmpty
	}
	if r.Status != nil || r.Category != nil {
		var status, category string
		if r.Status != nil {
			status = *r.Status
			if status == "" {
				fields["status"] = msgMustNotEmpty
			}
		}
		if r.Category != nil {
			category = *r.Category
			if category == "" {
				fields["category"] = msgMustNotEmpty
			}
		}
		var verr *domain.ValidationError
		if _, err := todo.ParseFilter(status, category); err != nil && errors.As(err, &verr) {
			for k, v := range verr.Fields {
				fields[k] = v
			}
		}
	}
	if r.ProgressPercent != nil && (*r.ProgressPercent < 0 || *r.ProgressPercent > 100) {
		fields["progress_percent"] = fmt.Sprintf("must be 0-100, got %d", *r.ProgressPercent)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
