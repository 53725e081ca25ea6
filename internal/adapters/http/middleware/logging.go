package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
)

// Logging returns middleware that logs request start and completion. The
// request logger carries the request and correlation ids and is stored in
// the context for downstream use. The completion entry reports the
// request's unit of work: its id, its outcome and, when completion failed,
// the error.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, outcome := ensureUnitOutcome(r.Context())

			child := logger.With(
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("correlation_id", CorrelationIDFromContext(ctx)),
			)
			ctx = logging.WithLogger(ctx, child)

			child.InfoContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if child.Enabled(ctx, slog.LevelDebug) {
				child.DebugContext(ctx, "request headers", headerGroup(r.Header))
			}

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			args := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.Status()),
				slog.Duration("duration", time.Since(start)),
			}
			args = append(args, outcome.LogAttrs()...)

			level := slog.LevelInfo
			if outcome.Result() == OutcomeFailed {
				level = slog.LevelWarn
			}
			child.Log(ctx, level, "request completed", args...)
		})
	}
}

// headerGroup renders headers as a "headers" group keyed by lowercase name.
// Credentials listed in logging.SensitiveHeaders are replaced here and the
// logger's masq layer redacts the same names again.
func headerGroup(h http.Header) slog.Attr {
	attrs := make([]any, 0, len(h))
	for key, vals := range h {
		name := strings.ToLower(key)
		if logging.SensitiveHeaders[name] {
			attrs = append(attrs, slog.String(name, logging.RedactedValue))
			continue
		}
		attrs = append(attrs, slog.String(name, strings.Join(vals, ",")))
	}
	return slog.Group("headers", attrs...)
}
