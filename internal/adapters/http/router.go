// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-uow/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-uow/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given. Every /api/v1 request
// runs in its own unit of work begun from units; a nil units leaves unit
// handling to the services.
func NewRouter(
	todoHandler *handlers.TodoHandler,
	healthHandler *handlers.HealthHandler,
	units *uow.Manager,
	defaults uow.Defaults,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		if units != nil {
			r.Use(middleware.RequestUnit(units, defaults))
		}

		r.Get("/todos", todoHandler.ListTodos)
		r.Post("/todos", todoHandler.CreateTodo)
		r.Get("/todos/{id}", todoHandler.GetTodo)
		r.Patch("/todos/{id}", todoHandler.UpdateTodo)
		r.Delete("/todos/{id}", todoHandler.DeleteTodo)
		r.Post("/todos/{id}/complete", todoHandler.CompleteTodo)
		r.Get("/todos/{id}/activity", todoHandler.ListActivity)

		r.Get("/stats", todoHandler.Stats)
	})

	return r
}
