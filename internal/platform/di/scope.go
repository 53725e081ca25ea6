// Package di adapts samber/do to the unit-of-work manager. Every physical unit
// is resolved from its own injector, and everything resolved there is shut
// down with the unit.
package di

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/go-uow/internal/uow"
)

// injectorItemKey stores the unit's injector in its item bag.
const injectorItemKey = "di.injector"

// Compile-time interface check.
var _ uow.ScopeFactory = (*ScopeFactory)(nil)

// ScopeFactory creates one isolated injector per physical unit. The packages
// passed to NewScopeFactory run against each new injector and must provide
// *uow.UnitOfWork.
//
// Unit injectors are standalone root scopes rather than children of the
// application injector: do never detaches a child scope that shuts itself
// down, so long-running services would accumulate one scope per request.
// Application singletons reach a unit injector through Shared.
type ScopeFactory struct {
	packages []func(do.Injector)
}

// NewScopeFactory returns a factory applying packages to each unit injector.
func NewScopeFactory(packages ...func(do.Injector)) *ScopeFactory {
	return &ScopeFactory{packages: packages}
}

// CreateScope implements [uow.ScopeFactory].
func (f *ScopeFactory) CreateScope(context.Context) (uow.ResolutionScope, error) {
	return &scope{injector: do.New(f.packages...)}, nil
}

type scope struct {
	injector *do.RootScope
}

func (s *scope) ResolveUnit() (*uow.UnitOfWork, error) {
	u, err := do.Invoke[*uow.UnitOfWork](s.injector)
	if err != nil {
		return nil, fmt.Errorf("resolving unit of work: %w", err)
	}
	u.Items().Set(injectorItemKey, do.Injector(s.injector))
	return u, nil
}

func (s *scope) Dispose(ctx context.Context) error {
	report := s.injector.ShutdownWithContext(ctx)
	if report != nil && !report.Succeed {
		return fmt.Errorf("shutting down unit scope: %w", report)
	}
	return nil
}

// Injector returns the injector owning the physical unit behind u. Child
// units share their parent's injector.
func Injector(u uow.Unit) (do.Injector, bool) {
	v, ok := u.Items().Get(injectorItemKey)
	if !ok {
		return nil, false
	}
	i, ok := v.(do.Injector)
	return i, ok
}

// Shared exposes the application's T inside each unit injector. The forwarded
// service is transient, so shutting a unit injector down never shuts down the
// shared instance.
func Shared[T any](root do.Injector) func(do.Injector) {
	return func(i do.Injector) {
		do.ProvideTransient(i, func(do.Injector) (T, error) {
			return do.Invoke[T](root)
		})
	}
}

// UnitPackage provides the unit itself, publishing through the injector's
// uow.EventPublisher.
func UnitPackage(opts ...uow.UnitOption) func(do.Injector) {
	return func(i do.Injector) {
		do.Provide(i, func(i do.Injector) (*uow.UnitOfWork, error) {
			publisher, err := do.Invoke[uow.EventPublisher](i)
			if err != nil {
				return nil, err
			}
			return uow.New(publisher, opts...), nil
		})
	}
}
