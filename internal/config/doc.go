// Package config loads, normalizes, and validates cleanmedia configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the TMDB_API_KEY environment fallback. CLI flags
// override the organizer section per run.
package config
