// Package uow coordinates units of work: one logical business operation's
// transactional scope, its registered data-access and transaction handles,
// and the events it raises.
//
// A unit is begun through a Manager and travels implicitly through nested
// calls on the context.Context value chain:
//
//	ctx, unit, err := manager.Begin(ctx, uow.Options{IsTransactional: true}, false)
//	if err != nil {
//	    return err
//	}
//	defer unit.Dispose(ctx)
//
//	// ... work that calls uow.CurrentByChecking(ctx) ...
//
//	return unit.Complete(ctx)
//
// Nested Begin calls without requiresNew join the ambient physical unit
// through a Child wrapper whose Complete and Dispose are no-ops, so exactly
// one drain and commit happens per physical unit.
//
// Complete saves pending changes, drains the local and distributed event
// queues until no handler adds further events, commits every transaction
// handle in registration order and finally runs completion callbacks.
// Dispose never fails: it releases transaction handles, raises the failed
// notification when the unit did not complete cleanly and always raises the
// disposed notification last.
//
// A handler that keeps adding events on every pass makes Complete loop
// forever; the coordinator does not bound the drain loop. Likewise a unit
// whose outer chain loops back on itself is a caller bug.
//
// Cancellation during Complete can leave earlier transaction handles
// committed while later ones are not. There is no compensating rollback for
// handles that already committed.
package uow
