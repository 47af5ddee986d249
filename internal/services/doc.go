// Package services defines shared utilities consumed by the reorganization
// engine and its optional collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, media kinds, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper so per-file failures can be
//     classified (parse failure, destination conflict, cross-device, IO) without
//     string matching.
//
// Collaborator clients (TMDB year lookup, drapto transcoding) live in
// subpackages and never touch the journal.
package services
