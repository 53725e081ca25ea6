package http_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	adapthttp "github.com/jsamuelsen11/go-uow/internal/adapters/http"
	"github.com/jsamuelsen11/go-uow/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func localConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
}

// startServer runs s.Start in the background and waits for started.
func startServer(t *testing.T, s *adapthttp.Server, started <-chan struct{}) <-chan error {
	t.Helper()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("background worker did not start")
	}
	return errCh
}

func TestServer_Addr(t *testing.T) {
	t.Parallel()

	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 9090}
	s := adapthttp.NewServer(cfg, http.NotFoundHandler(), nil)

	if got := s.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:9090")
	}
}

func TestServer_ShutdownStopsWorkersAndWaits(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	var finished atomic.Bool
	relay := func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
		return ctx.Err()
	}

	s := adapthttp.NewServer(localConfig(), http.NotFoundHandler(), discardLogger(),
		adapthttp.WithWorker("outbox-relay", relay))
	errCh := startServer(t, s, started)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !finished.Load() {
		t.Error("Shutdown() returned before the worker finished")
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Start() error after shutdown = %v", err)
	}
}

func TestServer_WorkerFailureDoesNotStopServer(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	panicked := make(chan struct{})
	s := adapthttp.NewServer(localConfig(), http.NotFoundHandler(), discardLogger(),
		adapthttp.WithWorker("failing", func(context.Context) error {
			close(started)
			return errors.New("broker gone")
		}),
		adapthttp.WithWorker("panicking", func(context.Context) error {
			<-started
			close(panicked)
			panic("relay bug")
		}),
	)
	errCh := startServer(t, s, started)
	<-panicked

	select {
	case err := <-errCh:
		t.Fatalf("Start() returned %v while workers failed, want it still serving", err)
	case <-time.After(20 * time.Millisecond):
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Start() error after shutdown = %v", err)
	}
}

func TestServer_ShutdownBoundedByContext(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	s := adapthttp.NewServer(localConfig(), http.NotFoundHandler(), discardLogger(),
		adapthttp.WithWorker("stuck", func(context.Context) error {
			close(started)
			<-release
			return nil
		}))
	errCh := startServer(t, s, started)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.Shutdown(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() error = %v, want DeadlineExceeded", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Start() error after shutdown = %v", err)
	}
}
