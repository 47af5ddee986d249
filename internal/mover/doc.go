// Package mover applies the filesystem mutations of a run (move, move_dir,
// delete) and appends each one to the run's journal.
//
// Dry-run and commit share every code path up to the mutating syscall, so a
// dry-run journal is a faithful preview of a committed one. Renames that
// cross filesystems fall back to a synced copy followed by removal of the
// source; the journal does not distinguish the two.
package mover
