// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/go-uow/internal/domain/activity"
	"github.com/jsamuelsen11/go-uow/internal/domain/todo"
)

// TodoResponse represents a single TODO item in HTTP responses.
type TodoResponse struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	Category        string `json:"category"`
	ProgressPercent int    `json:"progress_percent"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// TodoListResponse represents a list of TODO items in HTTP responses.
type TodoListResponse struct {
	Todos []TodoResponse `json:"todos"`
	Count int            `json:"count"`
}

// ToTodoResponse converts a domain Todo entity to an HTTP response DTO.
func ToTodoResponse(t *todo.Todo) TodoResponse {
	return TodoResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          t.Status.String(),
		Category:        t.Category.String(),
		ProgressPercent: t.ProgressPercent,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.Format(time.RFC3339),
	}
}

// ToTodoListResponse converts a slice of domain Todo entities to an HTTP list
// response DTO. A nil slice yields an empty list, never JSON null.
func ToTodoListResponse(todos []todo.Todo) TodoListResponse {
	items := make([]TodoResponse, len(todos))
	for i := range todos {
		items[i] = ToTodoResponse(&todos[i])
	}
	return TodoListResponse{
		Todos: items,
		Count: len(items),
	}
}

// ActivityResponse represents one recorded change to a todo.
type ActivityResponse struct {
	ID        int64  `json:"id"`
	TodoID    int64  `json:"todo_id"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail"`
	UnitID    string `json:"unit_id"`
	CreatedAt string `json:"created_at"`
}

// ActivityListResponse represents the activity log of a todo.
type ActivityListResponse struct {
	Activity []ActivityResponse `json:"activity"`
	Count    int                `json:"count"`
}

// ToActivityListResponse converts domain activity rows to an HTTP list
// response DTO.
func ToActivityListResponse(items []activity.Activity) ActivityListResponse {
	out := make([]ActivityResponse, len(items))
	for i, a := range items {
		out[i] = ActivityResponse{
			ID:        a.ID,
			TodoID:    a.TodoID,
			Kind:      string(a.Kind),
			Detail:    a.Detail,
			UnitID:    a.UnitID,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		}
	}
	return ActivityListResponse{
		Activity: out,
		Count:    len(out),
	}
}

// StatsResponse represents the aggregated activity counters.
type StatsResponse struct {
	Created   int64 `json:"created"`
	Completed int64 `json:"completed"`
	Deleted   int64 `json:"deleted"`
}

// ToStatsResponse converts domain Stats to an HTTP response DTO.
func ToStatsResponse(s *activity.Stats) StatsResponse {
	return StatsResponse{
		Created:   s.Created,
		Completed: s.Completed,
		Deleted:   s.Deleted,
	}
}
