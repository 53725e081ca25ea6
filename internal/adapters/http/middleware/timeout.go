package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout returns middleware that enforces a request deadline. If the handler
// does not complete within the given duration, a 504 Gateway Timeout response
// is written. The context passed to the handler carries the deadline so that
// downstream I/O operations, including the unit of work's transactions,
// respect it.
//
// The handler runs in a separate goroutine and writes into a buffer; exactly
// one of the handler or the timeout path reaches the client.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			bw := newBufferedWriter(w)
			done := make(chan struct{})

			go func() {
				next.ServeHTTP(bw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
				bw.flush()
			case <-ctx.Done():
				bw.mu.Lock()
				defer bw.mu.Unlock()
				// Later handler writes land in the buffer and are dropped.
				bw.wroteHeader = true
				w.WriteHeader(http.StatusGatewayTimeout)
			}
		})
	}
}
