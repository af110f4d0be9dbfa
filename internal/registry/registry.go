// Package registry provides a small concurrency-safe catalogue keyed by id.
// Engine variants register themselves in init() functions, so hosts can
// list and build them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Info contains metadata about a registered item.
type Info struct {
	ID          string
	Title       string
	Description string
}

type entry[T any] struct {
	info Info
	item T
}

// Registry maps ids to items of type T.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]entry[T])}
}

// Register adds an item to the registry.
// Panics if an item with the same ID is already registered.
func (r *Registry[T]) Register(info Info, item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: %q already registered", info.ID))
	}
	r.entries[info.ID] = entry[T]{info: info, item: item}
}

// List returns information about all registered items, sorted by ID.
func (r *Registry[T]) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Get returns the item registered under id.
func (r *Registry[T]) Get(id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("registry: unknown id %q", id)
	}
	return e.item, nil
}

// Exists checks if an item with the given ID is registered.
func (r *Registry[T]) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[id]
	return ok
}
