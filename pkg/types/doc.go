// Package types holds the value objects shared across filedb: the rule set,
// match results, metadata entries, search queries and result sets.
package types
