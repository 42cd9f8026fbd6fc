package stores

import (
	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/registry"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/rs/zerolog"
)

// Registry hands out one store per rule name. The first resolution of a
// rule's store is kept for the life of the Registry, so later configuration
// edits to that rule's store settings are not observed.
type Registry struct {
	caches registry.Registry[Cache]
	logger zerolog.Logger
}

// NewRegistry creates an empty store registry.
func NewRegistry() *Registry {
	return &Registry{
		caches: registry.New[Cache](),
		logger: logging.GetLogger("stores"),
	}
}

// Get returns the store for rule, creating it from the rule's store kind on
// first use. A failed creation is not remembered.
func (r *Registry) Get(rule types.ResolvedRule) (Cache, error) {
	return r.caches.GetOrCreate(rule.Name, func() (Cache, error) {
		factory, err := Lookup(rule.StoreKind())
		if err != nil {
			return nil, err
		}
		cache, err := factory(rule)
		if err != nil {
			return nil, err
		}
		r.logger.Debug().
			Str("rule", rule.Name).
			Str("kind", rule.StoreKind()).
			Msg("Store opened")
		return cache, nil
	})
}

// Has reports whether a store was already opened for the named rule.
func (r *Registry) Has(name string) bool {
	return r.caches.Has(name)
}

// Close closes every opened store and returns the first error.
func (r *Registry) Close() error {
	var first error
	r.caches.Each(func(name string, c Cache) {
		if err := c.Close(); err != nil {
			r.logger.Error().Err(err).Str("rule", name).Msg("Failed to close store")
			if first == nil {
				first = err
			}
		}
	})
	return first
}
