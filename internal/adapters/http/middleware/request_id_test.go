package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-uow/internal/adapters/http/middleware"
)

func serveRequestID(t *testing.T, header string) (ctxID, respID string) {
	t.Helper()

	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxID = middleware.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", http.NoBody)
	if header != "" {
		req.Header.Set("X-Request-ID", header)
	}
	handler.ServeHTTP(rec, req)
	return ctxID, rec.Header().Get("X-Request-ID")
}

func TestRequestID_KeepsWellFormedHeader(t *testing.T) {
	t.Parallel()

	ctxID, respID := serveRequestID(t, "incoming-123")
	if ctxID != "incoming-123" || respID != "incoming-123" {
		t.Errorf("context/response id = %q/%q, want incoming-123", ctxID, respID)
	}
}

func TestRequestID_ReplacesMissingOrMalformedHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing"},
		{name: "too long", header: strings.Repeat("a", 129)},
		{name: "embedded space", header: "two words"},
		{name: "control character", header: "id\x1binjected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctxID, respID := serveRequestID(t, tt.header)
			parsed, err := uuid.Parse(ctxID)
			if err != nil {
				t.Fatalf("uuid.Parse(%q) error = %v, want a generated UUID", ctxID, err)
			}
			if parsed.Version() != 4 {
				t.Errorf("generated id version = %d, want 4", parsed.Version())
			}
			if respID != ctxID {
				t.Errorf("response X-Request-ID = %q, want %q", respID, ctxID)
			}
		})
	}
}

func TestRequestID_FeedsCorrelationFallback(t *testing.T) {
	t.Parallel()

	var reqID, corrID string
	handler := middleware.RequestID()(middleware.CorrelationID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		reqID = middleware.RequestIDFromContext(r.Context())
		corrID = middleware.CorrelationIDFromContext(r.Context())
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/todos", http.NoBody))

	if reqID == "" || corrID != reqID {
		t.Errorf("correlation id = %q, want the request id %q", corrID, reqID)
	}
}

func TestRequestIDFromContext_NotFound(t *testing.T) {
	t.Parallel()

	if id := middleware.RequestIDFromContext(context.Background()); id != "" {
		t.Errorf("RequestIDFromContext = %q, want empty string", id)
	}
}
