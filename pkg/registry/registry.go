package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arthur-debert/filedb/pkg/errors"
)

// Registry stores items by name. Items are never evicted.
type Registry[T any] interface {
	// Register adds an item; a name can only be registered once.
	Register(name string, item T) error

	// Get retrieves an item by name.
	Get(name string) (T, error)

	// GetOrCreate returns the item registered under name, calling create and
	// registering its result when there is none. The first creation wins.
	GetOrCreate(name string, create func() (T, error)) (T, error)

	// Has checks if an item is registered.
	Has(name string) bool

	// List returns all registered names in sorted order.
	List() []string

	// Each calls fn for every item in name order.
	Each(fn func(name string, item T))

	// Count returns the number of registered items.
	Count() int
}

type registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// New creates an empty Registry.
func New[T any]() Registry[T] {
	return &registry[T]{
		items: make(map[string]T),
	}
}

func (r *registry[T]) Register(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "item '%s' is already registered", name)
	}
	r.items[name] = item
	return nil
}

func (r *registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero T
		return zero, errors.Newf(errors.ErrNotFound, "item '%s' not found in registry", name)
	}
	return item, nil
}

func (r *registry[T]) GetOrCreate(name string, create func() (T, error)) (T, error) {
	var zero T
	if name == "" {
		return zero, errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if item, exists := r.items[name]; exists {
		return item, nil
	}
	item, err := create()
	if err != nil {
		return zero, err
	}
	r.items[name] = item
	return item, nil
}

func (r *registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[name]
	return exists
}

func (r *registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *registry[T]) Each(fn func(name string, item T)) {
	for _, name := range r.List() {
		r.mu.RLock()
		item, ok := r.items[name]
		r.mu.RUnlock()
		if ok {
			fn(name, item)
		}
	}
}

func (r *registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// MustRegister registers an item and panics if registration fails.
// Meant for init() functions, where a failure is a programming error.
func MustRegister[T any](reg Registry[T], name string, item T) {
	if err := reg.Register(name, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}
