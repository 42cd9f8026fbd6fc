// Package filesystem provides the Mover that places ingested files into the
// archive, running each move as a synthfs plan on either the OS filesystem or
// an in-memory one for tests.
package filesystem
