package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen11/go-uow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-uow/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// OTEL tests are NOT parallel because they modify the global TracerProvider.

func setupTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return exporter
}

func spanAttrs(t *testing.T, exporter *tracetest.InMemoryExporter) (map[string]any, tracetest.SpanStub) {
	t.Helper()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	attrs := make(map[string]any)
	for _, a := range spans[0].Attributes {
		attrs[string(a.Key)] = a.Value.AsInterface()
	}
	return attrs, spans[0]
}

// tracedUnit wraps h in OpenTelemetry and the request unit middleware.
func tracedUnit(metrics *telemetry.Metrics, h http.HandlerFunc) http.Handler {
	return middleware.OpenTelemetry(metrics)(middleware.RequestUnit(newManager(), uow.Defaults{})(h))
}

func TestOpenTelemetry_TagsSpanWithCompletedUnit(t *testing.T) {
	exporter := setupTracer(t)

	var unitID string
	handler := tracedUnit(nil, func(w http.ResponseWriter, r *http.Request) {
		unitID = uow.Current(r.Context()).ID().String()
		w.WriteHeader(http.StatusCreated)
	})
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/todos", http.NoBody))

	attrs, span := spanAttrs(t, exporter)
	if span.Name != "HTTP POST /api/v1/todos" {
		t.Errorf("span name = %q, want %q", span.Name, "HTTP POST /api/v1/todos")
	}
	if attrs["uow.id"] != unitID {
		t.Errorf("uow.id = %v, want %s", attrs["uow.id"], unitID)
	}
	if attrs["uow.outcome"] != middleware.OutcomeCompleted {
		t.Errorf("uow.outcome = %v, want %s", attrs["uow.outcome"], middleware.OutcomeCompleted)
	}
	if attrs["uow.transactional"] != true {
		t.Errorf("uow.transactional = %v, want true for POST", attrs["uow.transactional"])
	}
	if status, _ := attrs["http.status_code"].(int64); status != http.StatusCreated {
		t.Errorf("http.status_code = %v, want %d", attrs["http.status_code"], http.StatusCreated)
	}
	if span.Status.Code == codes.Error {
		t.Error("span status = Error, want unset for a completed unit")
	}
}

func TestOpenTelemetry_FailedCompletionMarksSpanError(t *testing.T) {
	exporter := setupTracer(t)

	commitErr := errors.New("commit refused")
	handler := tracedUnit(nil, func(w http.ResponseWriter, r *http.Request) {
		uow.Current(r.Context()).OnCompleted(func(context.Context) error { return commitErr })
		w.WriteHeader(http.StatusOK)
	})
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/todos", http.NoBody))

	attrs, span := spanAttrs(t, exporter)
	if attrs["uow.outcome"] != middleware.OutcomeFailed {
		t.Errorf("uow.outcome = %v, want %s", attrs["uow.outcome"], middleware.OutcomeFailed)
	}
	if span.Status.Code != codes.Error {
		t.Errorf("span status code = %v, want Error", span.Status.Code)
	}
	if len(span.Events) == 0 || span.Events[0].Name != "exception" {
		t.Errorf("span events = %+v, want the recorded completion error", span.Events)
	}
}

func TestOpenTelemetry_ErrorStatusOn5xxWithoutUnit(t *testing.T) {
	exporter := setupTracer(t)

	handler := middleware.OpenTelemetry(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

	attrs, span := spanAttrs(t, exporter)
	if span.Status.Code != codes.Error {
		t.Errorf("span status code = %v, want Error", span.Status.Code)
	}
	if _, ok := attrs["uow.id"]; ok {
		t.Errorf("uow.id = %v, want absent without a unit", attrs["uow.id"])
	}
	if attrs["uow.outcome"] != middleware.OutcomeNone {
		t.Errorf("uow.outcome = %v, want %s", attrs["uow.outcome"], middleware.OutcomeNone)
	}
}

func TestOpenTelemetry_RecordsOutcomeInRequestMetrics(t *testing.T) {
	setupTracer(t)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := telemetry.NewMetrics(mp, "middleware-test")
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	handler := tracedUnit(metrics, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/todos/9", http.NoBody))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.server.request.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || len(sum.DataPoints) != 1 {
				t.Fatalf("request total data = %#v, want one int64 data point", m.Data)
			}
			set := sum.DataPoints[0].Attributes
			if v, _ := set.Value(attribute.Key("uow.outcome")); v.AsString() != middleware.OutcomeDiscarded {
				t.Errorf("uow.outcome label = %q, want %s", v.AsString(), middleware.OutcomeDiscarded)
			}
			if v, _ := set.Value(attribute.Key("result")); v.AsString() != "error" {
				t.Errorf("result label = %q, want error", v.AsString())
			}
			found = true
		}
	}
	if !found {
		t.Fatal("http.server.request.total not recorded")
	}
}
