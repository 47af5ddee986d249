// Package organizer runs the reorganization engine over a library root.
//
// A run snapshots every file below the root, classifies each one, and then
// deletes, quarantines, moves or skips it through a journaled mover. Moves
// resolve collisions without overwriting different content. After the walk
// empty and screens folders are reaped bottom-up, and folders that still
// look like release leftovers are reported. Dry runs share the same pipeline
// and only skip the mutations.
//
// Undo replays a run's journal in reverse to put moved files back.
package organizer
