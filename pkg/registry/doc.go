// Package registry provides a generic name->item registry. filedb uses it for
// the store-kind factory table populated at startup and for the per-rule
// store instances created on first use.
package registry
