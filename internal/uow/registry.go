package uow

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var errFactoryPanicked = errors.New("uow: handle factory panicked")

// registry maps string keys to handles of one kind. GetOrAdd runs its
// factory exactly once per key even when callers race: the first caller
// installs an in-flight entry and later callers wait on it.
type registry[T any] struct {
	kind string

	mu      sync.Mutex
	entries map[string]*registryEntry[T]
	order   []string
}

type registryEntry[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newRegistry[T any](kind string) *registry[T] {
	return &registry[T]{
		kind:    kind,
		entries: make(map[string]*registryEntry[T]),
	}
}

func readyEntry[T any](v T) *registryEntry[T] {
	e := &registryEntry[T]{done: make(chan struct{}), value: v}
	close(e.done)
	return e
}

// find returns the handle for key. An entry whose factory is still running
// is reported as absent.
func (r *registry[T]) find(key string) (T, bool) {
	var zero T

	r.mu.Lock()
	e, ok := r.entries[key]
	r.mu.Unlock()
	if !ok {
		return zero, false
	}

	select {
	case <-e.done:
		if e.err != nil {
			return zero, false
		}
		return e.value, true
	default:
		return zero, false
	}
}

func (r *registry[T]) add(key string, v T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; ok {
		return fmt.Errorf("%w: %s %q", ErrDuplicateRegistration, r.kind, key)
	}
	r.entries[key] = readyEntry(v)
	r.order = append(r.order, key)
	return nil
}

func (r *registry[T]) getOrAdd(ctx context.Context, key string, factory func(context.Context) (T, error)) (T, error) {
	var zero T

	r.mu.Lock()
	if e, ok := r.entries[key]; ok {
		r.mu.Unlock()
		select {
		case <-e.done:
			if e.err != nil {
				return zero, e.err
			}
			return e.value, nil
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	e := &registryEntry[T]{done: make(chan struct{})}
	r.entries[key] = e
	r.mu.Unlock()

	finished := false
	defer func() {
		if finished {
			return
		}
		r.mu.Lock()
		delete(r.entries, key)
		r.mu.Unlock()
		e.err = r.creating(key, errFactoryPanicked)
		close(e.done)
	}()

	v, err := factory(ctx)
	finished = true

	r.mu.Lock()
	if err != nil {
		delete(r.entries, key)
		err = r.creating(key, err)
		e.err = err
	} else {
		e.value = v
		r.order = append(r.order, key)
	}
	r.mu.Unlock()
	close(e.done)

	if err != nil {
		return zero, err
	}
	return v, nil
}

// creating wraps a factory failure; creator and waiters see the same error.
func (r *registry[T]) creating(key string, err error) error {
	return fmt.Errorf("creating %s %q: %w", r.kind, key, err)
}

// all returns the registered handles in registration order. A handle
// created by GetOrAdd is registered when its factory returns.
func (r *registry[T]) all() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key].value)
	}
	return out
}
