package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// schemaSteps upgrade the database one version at a time. Step i brings a
// database from version i to version i+1; existing steps never change.
var schemaSteps = []string{
	`CREATE TABLE runs (
    id TEXT PRIMARY KEY,
    root TEXT NOT NULL,
    kind TEXT NOT NULL,
    committed INTEGER NOT NULL DEFAULT 0,
    planned INTEGER NOT NULL DEFAULT 0,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    journal_path TEXT,
    counts_json TEXT NOT NULL DEFAULT '{}',
    unexpected INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX idx_runs_root_started ON runs(root, started_at);`,

	`ALTER TABLE runs ADD COLUMN undone_at TEXT;
CREATE INDEX idx_runs_journal ON runs(journal_path);`,
}

// ErrSchemaMismatch is returned when the database was written by a newer build.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("ensure schema_version: %w", err)
	}
	version, err := currentVersion(ctx, tx)
	if err != nil {
		return err
	}
	if version > len(schemaSteps) {
		return fmt.Errorf("%w: database has version %d, this build knows %d (delete %s to start over)",
			ErrSchemaMismatch, version, len(schemaSteps), s.path)
	}
	if version == len(schemaSteps) {
		return nil
	}

	for v := version; v < len(schemaSteps); v++ {
		if _, err := tx.ExecContext(ctx, schemaSteps[v]); err != nil {
			return fmt.Errorf("upgrade schema to version %d: %w", v+1, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("reset schema version: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", len(schemaSteps)); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func currentVersion(ctx context.Context, q queryRower) (int, error) {
	var version sql.NullInt64
	if err := q.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(version.Int64), nil
}
