package middleware_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/jsamuelsen11/go-uow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-uow/internal/uow"
)

func newManager() *uow.Manager {
	return uow.NewManager(uow.NewScopeFactory(func() *uow.UnitOfWork { return uow.New(nil) }))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// logSink collects JSON log lines; safe for the Timeout goroutine.
type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *logSink) logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(s, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (s *logSink) raw() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// entry returns the first log entry with the given message.
func (s *logSink) entry(t *testing.T, msg string) map[string]any {
	t.Helper()

	sc := bufio.NewScanner(bytes.NewBufferString(s.raw()))
	for sc.Scan() {
		var e map[string]any
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("decoding log line %q: %v", sc.Text(), err)
		}
		if e["msg"] == msg {
			return e
		}
	}
	t.Fatalf("no %q entry in log output:\n%s", msg, s.raw())
	return nil
}

// unitStack wraps h the way the server does: Recovery and Logging outside,
// the unit of work middleware inside.
func unitStack(logger *slog.Logger, units *uow.Manager, h http.HandlerFunc) http.Handler {
	return middleware.Recovery(logger)(
		middleware.Logging(logger)(
			middleware.RequestUnit(units, uow.Defaults{})(h),
		),
	)
}
