// Package history records reorganization runs in a SQLite database so the
// CLI can list past runs and find the journal to undo.
package history
