// Package paths resolves filedb's on-disk locations.
//
// Defaults follow the XDG Base Directory specification; each location can be
// overridden with a FILEDB_* environment variable.
package paths
