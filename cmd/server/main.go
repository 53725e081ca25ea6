// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, runs migrations, starts the HTTP server and the outbox
// relay, and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/go-uow/internal/adapters/broker"
	adapthttp "github.com/jsamuelsen11/go-uow/internal/adapters/http"
	"github.com/jsamuelsen11/go-uow/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-uow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-uow/internal/adapters/sqlstore"

	"github.com/jsamuelsen11/go-uow/internal/app"
	"github.com/jsamuelsen11/go-uow/internal/eventbus"
	"github.com/jsamuelsen11/go-uow/internal/eventbus/outbox"
	"github.com/jsamuelsen11/go-uow/internal/platform/config"
	"github.com/jsamuelsen11/go-uow/internal/platform/database"
	"github.com/jsamuelsen11/go-uow/internal/platform/di"
	"github.com/jsamuelsen11/go-uow/internal/platform/health"
	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
	"github.com/jsamuelsen11/go-uow/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-uow/internal/ports"
	"github.com/jsamuelsen11/go-uow/internal/uow"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
	healthCheckTimeout    = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// Schema before anything touches the database.
	if cfg.Database.Migrate {
		if err := database.Migrate(cfg.Database, logger); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", slog.Any("error", err))
		}
	}()

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)
	do.ProvideValue(injector, db)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Local event handlers.
	bus := do.MustInvoke[*eventbus.LocalBus](injector)
	do.MustInvoke[*app.ActivityRecorder](injector).Register(bus)

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(database.HealthChecker(db))

	// Redis and the relay only delay event delivery; committed units keep
	// their events in the outbox, so their failures degrade readiness.
	if cfg.Redis.Enabled {
		redis := do.MustInvoke[*broker.Redis](injector)
		registry.Register(health.Degraded(redis))
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("redis close error", slog.Any("error", err))
			}
		}()
	}

	switch relay := outboxRelay(injector, cfg); {
	case relay != nil:
		registry.Register(health.Degraded(relay))
	case !cfg.Outbox.Enabled:
		logger.Info("outbox relay disabled")
	default:
		logger.Warn("outbox relay enabled without a broker, staged events stay pending")
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	// Drains requests, then stops the relay between batches.
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	// Persistence.
	do.Provide(injector, func(i do.Injector) (*sqlstore.Provider, error) {
		db := do.MustInvoke[*sqlx.DB](i)
		return sqlstore.NewProvider(db, cfg.Database.Name), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoRepository, error) {
		return sqlstore.NewTodoRepository(do.MustInvoke[*sqlstore.Provider](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ActivityRepository, error) {
		return sqlstore.NewActivityRepository(do.MustInvoke[*sqlstore.Provider](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*outbox.Store, error) {
		return outbox.NewStore(do.MustInvoke[*sqlstore.Provider](i)), nil
	})

	// Messaging. A nil broker means distributed events go to the outbox only.
	do.Provide(injector, func(_ do.Injector) (*broker.Redis, error) {
		return broker.NewRedis(cfg.Redis), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.EventBroker, error) {
		switch {
		case cfg.Redis.Enabled:
			return do.MustInvoke[*broker.Redis](i), nil
		case cfg.Webhook.Enabled:
			return broker.NewWebhook(cfg.Webhook), nil
		default:
			return nil, nil
		}
	})

	do.Provide(injector, func(_ do.Injector) (*eventbus.LocalBus, error) {
		return eventbus.NewLocalBus(), nil
	})

	do.Provide(injector, func(i do.Injector) (*eventbus.Publisher, error) {
		return eventbus.NewPublisher(
			do.MustInvoke[*eventbus.LocalBus](i),
			do.MustInvoke[ports.EventBroker](i),
			eventbus.WithOutbox(do.MustInvoke[*outbox.Store](i)),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (uow.EventPublisher, error) {
		return do.MustInvoke[*eventbus.Publisher](i), nil
	})

	do.Provide(injector, func(i do.Injector) (*outbox.Relay, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return outbox.NewRelay(
			do.MustInvoke[*outbox.Store](i),
			do.MustInvoke[ports.EventBroker](i),
			cfg.Outbox,
			logger,
			outbox.WithRelayMetrics(metrics),
		), nil
	})

	// Units of work: one injector per physical unit, sharing the publisher.
	do.Provide(injector, func(i do.Injector) (*uow.Manager, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		scopes := di.NewScopeFactory(
			di.Shared[uow.EventPublisher](i),
			di.UnitPackage(
				uow.WithDefaults(cfg.UOW.Defaults()),
				uow.WithDrainPolicy(uow.DrainPolicy(cfg.UOW.DrainPolicy)),
				uow.WithMetrics(metrics),
			),
		)
		return uow.NewManager(scopes), nil
	})

	// Application.
	do.Provide(injector, func(i do.Injector) (ports.TodoService, error) {
		return app.NewTodoService(
			do.MustInvoke[ports.TodoRepository](i),
			do.MustInvoke[ports.ActivityRepository](i),
			do.MustInvoke[*uow.Manager](i),
			do.MustInvoke[*eventbus.Publisher](i),
			logger,
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.ActivityRecorder, error) {
		return app.NewActivityRecorder(
			do.MustInvoke[ports.ActivityRepository](i),
			do.MustInvoke[*eventbus.Publisher](i),
		), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(health.WithCheckTimeout(healthCheckTimeout)), nil
	})

	// HTTP.
	do.Provide(injector, func(i do.Injector) (*handlers.TodoHandler, error) {
		svc := do.MustInvoke[ports.TodoService](i)
		return handlers.NewTodoHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		todoH := do.MustInvoke[*handlers.TodoHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		units := do.MustInvoke[*uow.Manager](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(todoH, healthH, units, cfg.UOW.Defaults(),
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		var opts []adapthttp.ServerOption
		if relay := outboxRelay(i, cfg); relay != nil {
			opts = append(opts, adapthttp.WithWorker("outbox-relay", relay.Run))
		}
		return adapthttp.NewServer(cfg.Server, handler, logger, opts...), nil
	})
}

// outboxRelay returns the relay when it is enabled and has a broker to
// publish to, nil otherwise.
func outboxRelay(i do.Injector, cfg *config.Config) *outbox.Relay {
	if !cfg.Outbox.Enabled || do.MustInvoke[ports.EventBroker](i) == nil {
		return nil
	}
	return do.MustInvoke[*outbox.Relay](i)
}
