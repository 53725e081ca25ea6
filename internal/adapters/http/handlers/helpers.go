package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-uow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-uow/internal/domain"
	"github.com/jsamuelsen11/go-uow/internal/domain/todo"
)

// parseID extracts an int64 path parameter from the chi URL params.
func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{
			Fields: map[string]string{param: "must be a valid integer"},
		}
	}
	return id, nil
}

// parseTodoFilter reads the optional status and category query parameters.
func parseTodoFilter(r *http.Request) (todo.Filter, error) {
	q := r.URL.Query()
	return todo.ParseFilter(q.Get("status"), q.Get("category"))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. On failure,
// it writes a 400 error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": "invalid JSON"},
		})
		return false
	}
	return true
}

// todoRequest is a request DTO that validates itself and maps onto a todo.
type todoRequest interface {
	Validate() error
	Todo() *todo.Todo
}

// decodeTodo decodes and validates the JSON body into req and returns the
// mapped todo. On failure it writes the error response and returns nil.
func decodeTodo[T todoRequest](w http.ResponseWriter, r *http.Request, req T) *todo.Todo {
	if !decodeJSONBody(w, r, req) {
		return nil
	}
	if err := req.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return nil
	}
	return req.Todo()
}
