package handlers_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/go-uow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-uow/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-uow/internal/domain"
	"github.com/jsamuelsen11/go-uow/internal/domain/activity"
	"github.com/jsamuelsen11/go-uow/internal/domain/todo"
	"github.com/jsamuelsen11/go-uow/mocks"
)

func newTodoHandler(t *testing.T) (*handlers.TodoHandler, *mocks.MockTodoService) {
	t.Helper()
	svc := mocks.NewMockTodoService(t)
	return handlers.NewTodoHandler(svc), svc
}

// --- ListTodos ---

func TestListTodos_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	todos := []todo.Todo{validTodo()}
	svc.EXPECT().ListTodos(mock.Anything, todo.Filter{}).Return(todos, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TodoListResponse](t, rec)
	if resp.Count != 1 {
		t.Errorf("Count = %d, want 1", resp.Count)
	}
}

func TestListTodos_WithFilters(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	todos := []todo.Todo{validTodo()}
	svc.EXPECT().ListTodos(mock.Anything, todo.Filter{
		Status:   todo.StatusPending,
		Category: todo.CategoryWork,
	}).Return(todos, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos?status=pending&category=work", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusOK)
}

func TestListTodos_InvalidStatusFilter(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos?status=bad", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestListTodos_InvalidCategoryFilter(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos?category=bad", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestListTodos_ServiceError(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().ListTodos(mock.Anything, todo.Filter{}).Return(nil, domain.ErrUnavailable)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusBadGateway)
}

// --- CreateTodo ---

func TestCreateTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	created := validTodo()
	svc.EXPECT().CreateTodo(mock.Anything, mock.AnythingOfType("*todo.Todo")).
		Return(&created, nil)

	body := jsonBody(t, dto.CreateTodoRequest{Title: "Buy groceries", Description: "Milk, eggs, bread"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", body)
	req.Header.Set("Content-Type", "application/json")
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.TodoResponse](t, rec)
	if resp.Title != "Buy groceries" {
		t.Errorf("Title = %q, want %q", resp.Title, "Buy groceries")
	}
}

func TestCreateTodo_InvalidJSON(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", bytes.NewBufferString("{bad"))
	req.Header.Set("Content-Type", "application/json")
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreateTodo_ValidationError(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	body := jsonBody(t, dto.CreateTodoRequest{Title: "", Description: ""})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", body)
	req.Header.Set("Content-Type", "application/json")
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

// --- GetTodo ---

func TestGetTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	td := validTodo()
	svc.EXPECT().GetTodo(mock.Anything, int64(1)).Return(&td, nil)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/todos/1", nil), map[string]string{"id": "1"})
	h.GetTodo(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TodoResponse](t, rec)
	if resp.ID != 1 {
		t.Errorf("ID = %d, want 1", resp.ID)
	}
}

func TestGetTodo_InvalidID(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/todos/abc", nil), map[string]string{"id": "abc"})
	h.GetTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestGetTodo_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().GetTodo(mock.Anything, int64(999)).Return(nil, domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/todos/999", nil), map[string]string{"id": "999"})
	h.GetTodo(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- UpdateTodo ---

func TestUpdateTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	updated := validTodo()
	updated.Title = testUpdatedValue
	svc.EXPECT().UpdateTodo(mock.Anything, int64(1), mock.AnythingOfType("*todo.Todo")).
		Return(&updated, nil)

	title := testUpdatedValue
	body := jsonBody(t, dto.UpdateTodoRequest{Title: &title})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/1", body)
	req.Header.Set("Content-Type", "application/json")
	req = withChiParams(req, map[string]string{"id": "1"})
	h.UpdateTodo(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TodoResponse](t, rec)
	if resp.Title != testUpdatedValue {
		t.Errorf("Title = %q, want %q", resp.Title, testUpdatedValue)
	}
}

func TestUpdateTodo_InvalidID(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/abc", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	req = withChiParams(req, map[string]string{"id": "abc"})
	h.UpdateTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestUpdateTodo_InvalidJSON(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/1", bytes.NewBufferString("{bad"))
	req.Header.Set("Content-Type", "application/json")
	req = withChiParams(req, map[string]string{"id": "1"})
	h.UpdateTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

// --- DeleteTodo ---

func TestDeleteTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().DeleteTodo(mock.Anything, int64(1)).Return(nil)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodDelete, "/api/v1/todos/1", nil), map[string]string{"id": "1"})
	h.DeleteTodo(rec, req)

	requireStatus(t, rec, http.StatusNoContent)
}

func TestDeleteTodo_InvalidID(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodDelete, "/api/v1/todos/abc", nil), map[string]string{"id": "abc"})
	h.DeleteTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestDeleteTodo_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().DeleteTodo(mock.Anything, int64(999)).Return(domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodDelete, "/api/v1/todos/999", nil), map[string]string{"id": "999"})
	h.DeleteTodo(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- CompleteTodo ---

func TestCompleteTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	done := validTodo()
	done.Status = todo.StatusDone
	done.ProgressPercent = 100
	svc.EXPECT().CompleteTodo(mock.Anything, int64(1)).Return(&done, nil)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodPost, "/api/v1/todos/1/complete", nil), map[string]string{"id": "1"})
	h.CompleteTodo(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TodoResponse](t, rec)
	if resp.Status != "done" || resp.ProgressPercent != 100 {
		t.Errorf("got status %q progress %d, want done 100", resp.Status, resp.ProgressPercent)
	}
}

func TestCompleteTodo_AlreadyDone(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().CompleteTodo(mock.Anything, int64(1)).Return(nil, domain.ErrConflict)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodPost, "/api/v1/todos/1/complete", nil), map[string]string{"id": "1"})
	h.CompleteTodo(rec, req)

	requireStatus(t, rec, http.StatusConflict)
}

func TestCompleteTodo_InvalidID(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodPost, "/api/v1/todos/x/complete", nil), map[string]string{"id": "x"})
	h.CompleteTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

// --- ListActivity ---

func TestListActivity_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().ListActivity(mock.Anything, int64(1)).Return([]activity.Activity{
		{ID: 1, TodoID: 1, Kind: activity.KindCreated, Detail: "created", UnitID: "u-1", CreatedAt: testTime},
		{ID: 2, TodoID: 1, Kind: activity.KindUpdated, Detail: "updated", UnitID: "u-2", CreatedAt: testTime},
	}, nil)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/todos/1/activity", nil), map[string]string{"id": "1"})
	h.ListActivity(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.ActivityListResponse](t, rec)
	if resp.Count != 2 {
		t.Fatalf("Count = %d, want 2", resp.Count)
	}
	if resp.Activity[1].Kind != "updated" {
		t.Errorf("Activity[1].Kind = %q, want %q", resp.Activity[1].Kind, "updated")
	}
}

func TestListActivity_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().ListActivity(mock.Anything, int64(5)).Return(nil, domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/todos/5/activity", nil), map[string]string{"id": "5"})
	h.ListActivity(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- Stats ---

func TestStats_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().Stats(mock.Anything).Return(&activity.Stats{Created: 4, Completed: 1}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	h.Stats(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.StatsResponse](t, rec)
	if resp.Created != 4 || resp.Completed != 1 || resp.Deleted != 0 {
		t.Errorf("Stats = %+v, want created 4 completed 1 deleted 0", resp)
	}
}

func TestStats_Error(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().Stats(mock.Anything).Return(nil, errors.New("disk gone"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	h.Stats(rec, req)

	requireStatus(t, rec, http.StatusInternalServerError)
}
