package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-uow/internal/platform/telemetry"
)

// OpenTelemetry returns middleware that opens a server span per request,
// continuing any W3C trace context in the headers, and records the server
// request metrics. Span and metrics are labelled with the outcome of the
// request's unit of work; a failed completion marks the span as an error
// even though the client sees the rewritten response.
//
// A nil metrics skips metric recording.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx, outcome := ensureUnitOutcome(r.Context())
			ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(r.Header))

			tracer := otel.GetTracerProvider().Tracer("middleware")
			ctx, span := tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.url", r.URL.String()),
				),
			)
			defer span.End()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.Status()
			result := outcome.Result()
			span.SetAttributes(
				attribute.Int("http.status_code", status),
				telemetry.AttrUnitOutcome.String(result),
			)
			if id := outcome.ID(); id != uuid.Nil {
				span.SetAttributes(
					attribute.String("uow.id", id.String()),
					attribute.Bool("uow.transactional", outcome.Transactional()),
				)
			}

			switch {
			case result == OutcomeFailed:
				span.SetStatus(codes.Error, "unit of work failed")
				if err := outcome.Err(); err != nil {
					span.RecordError(err)
				}
			case status >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			recordServerMetrics(ctx, metrics, r.Method, start, status, result)
		})
	}
}

// recordServerMetrics records request duration and count. Safe with nil
// metrics.
func recordServerMetrics(ctx context.Context, metrics *telemetry.Metrics, method string, start time.Time, status int, outcome string) {
	if metrics == nil {
		return
	}

	result := "success"
	if status >= http.StatusBadRequest || outcome == OutcomeFailed {
		result = "error"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrResult.String(result),
		telemetry.AttrUnitOutcome.String(outcome),
	)

	metrics.ServerRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	metrics.ServerRequestTotal.Add(ctx, 1, attrs)
}
