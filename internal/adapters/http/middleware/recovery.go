package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/go-uow/internal/adapters/http/dto"
)

// errInternalServer is what clients see for a recovered panic.
var errInternalServer = errors.New("internal server error")

// Recovery returns middleware that recovers panics from downstream handlers.
// By the time the panic reaches it, UnitOfWork has disposed the request's
// unit, which rolls it back; the log entry names that unit and its outcome.
// A 500 problem response is written unless the handler already wrote a
// status.
//
// Recovery installs the request's UnitOutcome, so it must be the outermost
// middleware.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, outcome := ensureUnitOutcome(r.Context())
			r = r.WithContext(ctx)
			rec := newStatusRecorder(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				args := []any{
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}
				logger.ErrorContext(ctx, "panic recovered", append(args, outcome.LogAttrs()...)...)

				if !rec.wroteHeader() {
					dto.WriteErrorResponse(rec, r, errInternalServer)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
