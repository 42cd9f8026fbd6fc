package stores

import (
	"fmt"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/registry"
	"github.com/arthur-debert/filedb/pkg/types"
)

// Cache is the capability set of a per-rule metadata store.
type Cache interface {
	// Record stores metadata for a file that is about to be placed at dst.
	// The event timestamp is re-derived from dst's base name using the rule's format.
	Record(dst string, rule types.ResolvedRule, tags []string) error

	// Search returns the rows selected by q, projected as q.Parameter asks.
	Search(q types.Query) (*types.ResultSet, error)

	// Close releases the store's connection.
	Close() error
}

// Factory builds a store for a rule.
type Factory func(rule types.ResolvedRule) (Cache, error)

var factories = registry.New[Factory]()

// Register makes a store kind available. It is meant to be called from init
// and panics when the kind is already taken.
func Register(kind string, factory Factory) {
	registry.MustRegister(factories, kind, factory)
}

// Lookup returns the factory for a store kind.
func Lookup(kind string) (Factory, error) {
	f, err := factories.Get(kind)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreNotFound, "unknown store kind %q", kind).
			WithDetail("available", factories.List())
	}
	return f, nil
}

// Kinds lists the registered store kinds.
func Kinds() []string {
	return factories.List()
}

// Columns is the column set shared by the table-backed stores.
var Columns = []string{"id", "datetime", "path", "tags"}

// DefaultTable is the table name used when a rule does not set the "table" option.
const DefaultTable = "contents"

// StringOption reads a string store option.
func StringOption(rule types.ResolvedRule, key, def string) string {
	v, ok := rule.Options[key]
	if !ok || v == nil {
		return def
	}
	if s := fmt.Sprint(v); s != "" {
		return s
	}
	return def
}

// BoolOption reads a boolean store option. Strings "true"/"1"/"yes" count as true.
func BoolOption(rule types.ResolvedRule, key string) bool {
	switch v := rule.Options[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1" || v == "yes"
	case int:
		return v != 0
	case int64:
		return v != 0
	default:
		return false
	}
}

// IntOption reads an integer store option.
func IntOption(rule types.ResolvedRule, key string, def int) int {
	switch v := rule.Options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}
