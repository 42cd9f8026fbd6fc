// Package stores defines the metadata store contract ("Cache") every store
// kind implements, the startup-populated table of store factories, and the
// per-rule registry that creates each rule's store once and keeps it for the
// life of the process.
//
// It also carries the pieces every store kind shares: event timestamp
// extraction from archived file names, and the predicate model search
// queries are built from.
//
// Store kinds live in sub-packages and register themselves from init:
//
//	general  SQLite table per rule, textual SQL (reference store)
//	orm      the same table managed through gorm
//	redis    hashes plus a time-scored sorted set
//
// Import pkg/stores/builtin to make all of them available.
package stores
