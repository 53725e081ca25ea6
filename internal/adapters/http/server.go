package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/jsamuelsen11/go-uow/internal/platform/config"
)

const defaultShutdownTimeout = 10 * time.Second

// Worker is a background task bound to the server's lifetime, such as the
// outbox relay. It runs until its context is cancelled.
type Worker func(ctx context.Context) error

type namedWorker struct {
	name string
	run  Worker
}

// Server runs the HTTP listener together with its background workers.
// Shutdown drains in-flight requests first, so every request unit has
// completed and staged its events before the workers are stopped.
type Server struct {
	srv    *http.Server
	logger *slog.Logger

	workers    []namedWorker
	workerDone conc.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
	stop    context.CancelFunc
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithWorker registers a background worker started by Start.
func WithWorker(name string, w Worker) ServerOption {
	return func(s *Server) {
		s.workers = append(s.workers, namedWorker{name: name, run: w})
	}
}

// NewServer creates a new HTTP server from the given config and handler.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the background workers and serves HTTP until Shutdown.
// Returns nil on graceful shutdown.
func (s *Server) Start() error {
	s.startWorkers()

	s.logger.Info("starting HTTP server", slog.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

func (s *Server) startWorkers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	for _, w := range s.workers {
		s.workerDone.Go(func() {
			s.logger.Info("background worker started", slog.String("worker", w.name))
			if err := w.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("background worker stopped",
					slog.String("worker", w.name),
					slog.Any("error", err),
				)
			}
		})
	}
}

func (s *Server) stopWorkers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.stop != nil {
		s.stop()
	}
}

// Shutdown stops accepting requests, waits for in-flight ones, then cancels
// the workers and waits for them, all within ctx. Without a deadline on ctx
// a 10 second timeout applies.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultShutdownTimeout)
		defer cancel()
	}

	s.logger.Info("shutting down HTTP server")
	httpErr := s.srv.Shutdown(ctx)

	s.stopWorkers()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if r := s.workerDone.WaitAndRecover(); r != nil {
			s.logger.Error("background worker panicked", slog.String("panic", r.String()))
		}
	}()

	select {
	case <-done:
		return httpErr
	case <-ctx.Done():
		return errors.Join(httpErr, fmt.Errorf("waiting for background workers: %w", ctx.Err()))
	}
}

// Addr returns the server's configured listen address string.
func (s *Server) Addr() string {
	return s.srv.Addr
}
