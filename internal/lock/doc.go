// Package lock holds a per-root advisory file lock so two runs (or a run and
// an undo) never mutate the same tree at once.
package lock
