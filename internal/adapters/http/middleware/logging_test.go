package middleware_test

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsamuelsen11/go-uow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
	"github.com/jsamuelsen11/go-uow/internal/uow"
)

func TestLogging_CompletionReportsUnitOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantOutcome string
		wantLevel   string
	}{
		{
			name:        "completed",
			handler:     func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) },
			wantOutcome: middleware.OutcomeCompleted,
			wantLevel:   "INFO",
		},
		{
			name:        "discarded on client error",
			handler:     func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) },
			wantOutcome: middleware.OutcomeDiscarded,
			wantLevel:   "INFO",
		},
		{
			name: "failed completion",
			handler: func(w http.ResponseWriter, r *http.Request) {
				uow.Current(r.Context()).OnCompleted(func(context.Context) error { return errors.New("broker down") })
				w.WriteHeader(http.StatusOK)
			},
			wantOutcome: middleware.OutcomeFailed,
			wantLevel:   "WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink := &logSink{}
			var unitID string
			handler := unitStack(sink.logger(), newManager(), func(w http.ResponseWriter, r *http.Request) {
				unitID = uow.Current(r.Context()).ID().String()
				tt.handler(w, r)
			})
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/todos", http.NoBody))

			entry := sink.entry(t, "request completed")
			if entry["uow_id"] != unitID {
				t.Errorf("uow_id = %v, want %s", entry["uow_id"], unitID)
			}
			if entry["uow_outcome"] != tt.wantOutcome {
				t.Errorf("uow_outcome = %v, want %s", entry["uow_outcome"], tt.wantOutcome)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if tt.wantOutcome == middleware.OutcomeFailed && !strings.Contains(entry["uow_error"].(string), "broker down") {
				t.Errorf("uow_error = %v, want the completion error", entry["uow_error"])
			}
		})
	}
}

func TestLogging_HandlerLogsCarryUnitIDOnce(t *testing.T) {
	t.Parallel()

	sink := &logSink{}
	handler := unitStack(sink.logger(), newManager(), func(_ http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).InfoContext(r.Context(), "handler log")
	})
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/todos", http.NoBody))

	sc := bufio.NewScanner(strings.NewReader(sink.raw()))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, `"handler log"`) {
			continue
		}
		if n := strings.Count(line, `"uow_id"`); n != 1 {
			t.Errorf("handler log carries uow_id %d times, want once: %s", n, line)
		}
		return
	}
	t.Fatalf("handler log not captured:\n%s", sink.raw())
}

func TestLogging_EnrichesLoggerWithIDs(t *testing.T) {
	t.Parallel()

	sink := &logSink{}
	handler := middleware.RequestID()(
		middleware.CorrelationID()(
			middleware.Logging(sink.logger())(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				logging.FromContext(r.Context()).Info("handler log")
			})),
		),
	)

	req := httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody)
	req.Header.Set("X-Request-ID", "req-log-test")
	req.Header.Set("X-Correlation-ID", "corr-log-test")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := sink.entry(t, "handler log")
	if entry["request_id"] != "req-log-test" || entry["correlation_id"] != "corr-log-test" {
		t.Errorf("request_id/correlation_id = %v/%v, want req-log-test/corr-log-test",
			entry["request_id"], entry["correlation_id"])
	}

	done := sink.entry(t, "request completed")
	if done["uow_outcome"] != middleware.OutcomeNone {
		t.Errorf("uow_outcome = %v, want %s outside the API routes", done["uow_outcome"], middleware.OutcomeNone)
	}
	if status, _ := done["status"].(float64); status != http.StatusOK {
		t.Errorf("status = %v, want 200", done["status"])
	}
	if _, ok := done["duration"]; !ok {
		t.Error("request completed entry missing duration")
	}
}

func TestLogging_RedactsSensitiveHeaders(t *testing.T) {
	t.Parallel()

	sink := &logSink{}
	handler := middleware.Logging(sink.logger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret-token-value")
	req.Header.Set("Cookie", "session=abc")
	req.Header.Set("Accept", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	headers, ok := sink.entry(t, "request headers")["headers"].(map[string]any)
	if !ok {
		t.Fatal("request headers entry has no headers group")
	}
	for _, name := range []string{"authorization", "cookie"} {
		if headers[name] != logging.RedactedValue {
			t.Errorf("headers[%q] = %v, want %s", name, headers[name], logging.RedactedValue)
		}
	}
	if headers["accept"] != "application/json" {
		t.Errorf("headers[accept] = %v, want application/json", headers["accept"])
	}
	if strings.Contains(sink.raw(), "secret-token-value") {
		t.Error("log output leaked the bearer token")
	}
}
