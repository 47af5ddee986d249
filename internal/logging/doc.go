// Package logging assembles the slog loggers used across cleanmedia.
//
// It owns the console and JSON handlers, the optional rotating log file, and
// context helpers that tag log lines with the run id, media kind, and stage.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
