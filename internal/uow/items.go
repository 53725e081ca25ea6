package uow

import (
	"context"
	"fmt"
	"sync"
)

// Items is a string-keyed bag owned by a physical unit. Values live until
// the unit is disposed. Safe for concurrent use.
type Items struct {
	mu     sync.RWMutex
	values map[string]any
}

func newItems() *Items {
	return &Items{values: make(map[string]any)}
}

// Get returns the value stored under key.
func (i *Items) Get(key string) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	v, ok := i.values[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (i *Items) Set(key string, value any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.values[key] = value
}

// Delete removes key.
func (i *Items) Delete(key string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.values, key)
}

// Len returns the number of stored values.
func (i *Items) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.values)
}

// loadOrStore stores value unless key is already set and returns the value
// that ended up stored.
func (i *Items) loadOrStore(key string, value any) any {
	i.mu.Lock()
	defer i.mu.Unlock()
	if existing, ok := i.values[key]; ok {
		return existing
	}
	i.values[key] = value
	return value
}

func (i *Items) clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	clear(i.values)
}

// itemResult caches both outcomes of a fetch so repeated reads within the
// unit observe the same result.
type itemResult struct {
	value any
	err   error
}

// GetOrFetchItem returns the cached value for key in the unit's item bag,
// calling fetch on a miss and caching its result, errors included. When two
// callers miss concurrently both fetch and the first stored result wins.
//
//	todo, err := uow.GetOrFetchItem(ctx, unit, "todo:42", func(ctx context.Context) (*todo.Todo, error) {
//	    return repo.GetByID(ctx, 42)
//	})
func GetOrFetchItem[T any](ctx context.Context, u Unit, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	items := u.Items()

	if cached, ok := items.Get(key); ok {
		return itemValue[T](key, cached)
	}

	v, err := fetch(ctx)
	stored := items.loadOrStore(key, itemResult{value: v, err: err})

	if res, ok := stored.(itemResult); ok && res.err != nil {
		return zero, res.err
	}
	return itemValue[T](key, stored)
}

func itemValue[T any](key string, cached any) (T, error) {
	var zero T
	if res, ok := cached.(itemResult); ok {
		if res.err != nil {
			return zero, res.err
		}
		cached = res.value
	}
	v, ok := cached.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T, want %T", ErrItemTypeMismatch, key, cached, zero)
	}
	return v, nil
}
