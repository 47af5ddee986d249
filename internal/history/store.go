package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNoRuns is returned by Latest when no run matches.
var ErrNoRuns = errors.New("no recorded runs")

// Run is one recorded reorganization run.
type Run struct {
	ID          string
	Root        string
	Kind        string
	Commit      bool
	Plan        bool
	StartedAt   time.Time
	FinishedAt  time.Time
	JournalPath string
	Counts      map[string]int
	Unexpected  int
	Failed      int
	UndoneAt    *time.Time
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store persists run history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Record inserts a run. A missing ID is generated.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	counts, err := json.Marshal(run.Counts)
	if err != nil {
		return run, fmt.Errorf("encode counts: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (
            id, root, kind, committed, planned, started_at, finished_at,
            journal_path, counts_json, unexpected, failed
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Root,
		run.Kind,
		boolToInt(run.Commit),
		boolToInt(run.Plan),
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		nullableString(run.JournalPath),
		string(counts),
		run.Unexpected,
		run.Failed,
	)
	if err != nil {
		return run, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := selectRuns + " ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// Latest returns the newest committed run for root that wrote a journal and
// has not been undone.
func (s *Store) Latest(ctx context.Context, root string) (Run, error) {
	runs, err := s.query(ctx,
		selectRuns+` WHERE root = ? AND committed = 1 AND journal_path IS NOT NULL AND undone_at IS NULL
        ORDER BY started_at DESC LIMIT 1`,
		root,
	)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("%w for %s", ErrNoRuns, root)
	}
	return runs[0], nil
}

// MarkUndone flags the run that wrote journalPath as reverted.
func (s *Store) MarkUndone(ctx context.Context, journalPath string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE runs SET undone_at = ? WHERE journal_path = ? AND undone_at IS NULL",
		formatTime(at), journalPath,
	)
	if err != nil {
		return false, fmt.Errorf("mark undone: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

const selectRuns = `SELECT id, root, kind, committed, planned, started_at, finished_at,
    journal_path, counts_json, unexpected, failed, undone_at FROM runs`

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run                Run
		committed, planned int
		started, finished  string
		journal, undone    sql.NullString
		counts             string
	)
	if err := rows.Scan(&run.ID, &run.Root, &run.Kind, &committed, &planned, &started, &finished,
		&journal, &counts, &run.Unexpected, &run.Failed, &undone); err != nil {
		return run, fmt.Errorf("scan run: %w", err)
	}
	run.Commit = committed != 0
	run.Plan = planned != 0
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.JournalPath = journal.String
	if undone.Valid {
		at := parseTime(undone.String)
		run.UndoneAt = &at
	}
	if err := json.Unmarshal([]byte(counts), &run.Counts); err != nil {
		return run, fmt.Errorf("decode counts for run %s: %w", run.ID, err)
	}
	return run, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
