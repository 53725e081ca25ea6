package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/go-uow/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-uow/internal/domain"
	"github.com/jsamuelsen11/go-uow/internal/platform/logging"
	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// ReservationName is the name under which UnitOfWork reserves the request's
// unit. BeginUnit initializes it.
const ReservationName = "http.request"

// errUnitFailed replaces infrastructure errors in responses so that driver
// and broker messages do not reach clients.
var errUnitFailed = errors.New("the request could not be committed")

// RequestUnit composes UnitOfWork and BeginUnit: every request gets a
// reserved unit that is begun before the handler runs.
func RequestUnit(units *uow.Manager, defaults uow.Defaults) func(http.Handler) http.Handler {
	reserve, begin := UnitOfWork(units), BeginUnit(units, defaults)
	return func(next http.Handler) http.Handler {
		return reserve(begin(next))
	}
}

// UnitOfWork returns middleware that reserves a physical unit of work for the
// request and binds it to the request context. The unit is completed after
// the handler returns when it was initialized (see BeginUnit) and the
// response status is below 400. It is always disposed. What happened to the
// unit is recorded in the request's UnitOutcome.
//
// The response is buffered until completion so that a failed commit can
// still be reported as a 500 instead of the handler's success response.
func UnitOfWork(units *uow.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, outcome := ensureUnitOutcome(r.Context())

			ctx, u, err := units.Reserve(ctx, ReservationName, true)
			if err != nil {
				logging.FromContext(ctx).ErrorContext(ctx, "failed to reserve unit of work",
					slog.String("operation", "middleware.UnitOfWork"),
					slog.Any("error", err),
				)
				outcome.settle(OutcomeFailed, err)
				dto.WriteErrorResponse(w, r, errUnitFailed)
				return
			}
			defer u.Dispose(context.WithoutCancel(ctx))
			outcome.reserved(u.ID())

			r = r.WithContext(ctx)
			bw := newBufferedWriter(w)
			next.ServeHTTP(bw, r)

			switch {
			case u.IsReserved():
				outcome.settle(OutcomeUninitialized, nil)
				bw.flush()
				return
			case bw.status() >= http.StatusBadRequest:
				outcome.settle(OutcomeDiscarded, nil)
				bw.flush()
				return
			}

			if err := u.Complete(ctx); err != nil {
				logging.FromContext(ctx).ErrorContext(ctx, "failed to complete unit of work",
					slog.String("operation", "middleware.UnitOfWork"),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
				outcome.settle(OutcomeFailed, err)
				dto.WriteErrorResponse(w, r, responseError(err))
				return
			}
			outcome.settle(OutcomeCompleted, nil)
			bw.flush()
		})
	}
}

// BeginUnit returns middleware that initializes the unit reserved by
// UnitOfWork. Requests with unsafe methods get a transactional unit unless
// defaults says otherwise. Without a reservation the request passes through
// and services open units of their own.
func BeginUnit(units *uow.Manager, defaults uow.Defaults) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			opts := uow.Options{IsTransactional: defaults.IsTransactional(!isSafeMethod(r.Method))}

			ok, err := units.TryBeginReserved(ctx, ReservationName, opts)
			if err != nil {
				logging.FromContext(ctx).ErrorContext(ctx, "failed to begin reserved unit of work",
					slog.String("operation", "middleware.BeginUnit"),
					slog.Any("error", err),
				)
				dto.WriteErrorResponse(w, r, errUnitFailed)
				return
			}
			if !ok {
				logging.FromContext(ctx).DebugContext(ctx, "no reserved unit of work",
					slog.String("operation", "middleware.BeginUnit"),
				)
			} else if o := UnitOutcomeFromContext(ctx); o != nil {
				o.begun(opts.IsTransactional)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// responseError keeps domain errors raised while completing (for example by
// an event handler) and the rollback and deadline sentinels; anything else
// is hidden behind errUnitFailed.
func responseError(err error) error {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrConflict,
		domain.ErrForbidden,
	} {
		if errors.Is(err, target) {
			return err
		}
	}
	for _, sentinel := range []error{uow.ErrRolledBack, context.DeadlineExceeded} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return errUnitFailed
}
