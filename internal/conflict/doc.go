// Package conflict decides what happens when a file's canonical destination
// is already occupied: leave it (same file), drop the source (same content),
// or pick the next free alternate name.
package conflict
