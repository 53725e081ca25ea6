package uow

import "errors"

// Programming errors. Callers should fail fast on these rather than retry.
var (
	// ErrAlreadyInitialized is returned by Initialize when the unit's options
	// were already set.
	ErrAlreadyInitialized = errors.New("uow: unit of work already initialized")

	// ErrAlreadyCompleting is returned by Complete when the unit is completing
	// or has completed.
	ErrAlreadyCompleting = errors.New("uow: complete called more than once")

	// ErrDuplicateRegistration is returned when a data-access or transaction
	// handle is added under a key that is already registered.
	ErrDuplicateRegistration = errors.New("uow: handle already registered")

	// ErrReservationNotFound is returned by BeginReserved when no unit on the
	// outer chain is reserved under the requested name.
	ErrReservationNotFound = errors.New("uow: reserved unit of work not found")
)

// ErrRolledBack is returned by Complete when Rollback ran while completion
// was in progress. Transaction handles are not committed in that case.
var ErrRolledBack = errors.New("uow: unit of work rolled back during completion")

// ErrItemTypeMismatch is returned by GetOrFetchItem when the cached value for
// a key does not have the requested type.
var ErrItemTypeMismatch = errors.New("uow: item type mismatch")

var errNoPublisher = errors.New("uow: no event publisher configured")
