// Package testutil provides fixtures shared by filedb tests: a dated
// filename rule like the one `filedb init` writes, and helpers that create
// files and check the archive on disk.
package testutil
