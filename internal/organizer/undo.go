package organizer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"cleanmedia/internal/fileutil"
	"cleanmedia/internal/journal"
	"cleanmedia/internal/logging"
	"cleanmedia/internal/mover"
	"cleanmedia/internal/services"
)

// Undo replays the journal at journalPath in reverse, moving every moved
// file or folder back. Deletes cannot be reversed and are reported as lost.
// A missing or malformed journal is returned before anything is touched.
// The replay itself is not journaled.
func Undo(ctx context.Context, journalPath string, logger *slog.Logger) (UndoReport, error) {
	report := UndoReport{JournalPath: journalPath}
	entries, err := journal.Load(journalPath)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return report, services.Wrap(marker, "undo", "load journal", journalPath, err)
	}
	logger = logging.WithContext(services.WithStage(ctx, "undo"), logging.NewComponentLogger(logger, "undo"))
	logger.Info("replaying journal",
		logging.String("journal", journalPath),
		logging.Int("entries", len(entries)),
	)

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		switch entry.Op {
		case journal.OpMove, journal.OpMoveDir:
			restoreEntry(entry, logger, &report)
		case journal.OpDelete:
			logging.WarnWithContext(logger, "deleted path cannot be restored", "undo_lost",
				logging.String("path", entry.Src),
				logging.String(logging.FieldErrorHint, "restore from backup if needed"),
				logging.String(logging.FieldImpact, "path stays deleted"),
			)
			report.Lost = append(report.Lost, entry.Src)
		}
	}

	logger.Info("undo complete",
		logging.Int("restored", report.Restored),
		logging.Int("skipped", len(report.Skipped)),
		logging.Int("lost", len(report.Lost)),
		logging.Int("failed", len(report.Failures)),
	)
	return report, nil
}

func restoreEntry(entry journal.Entry, logger *slog.Logger, report *UndoReport) {
	if !fileutil.Exists(entry.Dst) {
		err := services.Wrap(services.ErrReplayMissingTarget, "undo", "restore", entry.Dst, nil)
		logging.WarnWithContext(logger, "moved path no longer exists", services.EventType(err),
			logging.String("src", entry.Src),
			logging.String("dst", entry.Dst),
			logging.String(logging.FieldErrorHint, "the file was moved or removed after the run"),
			logging.String(logging.FieldImpact, "entry skipped"),
		)
		report.Skipped = append(report.Skipped, Unexpected{Path: entry.Dst, Reason: "missing target"})
		return
	}
	if fileutil.Exists(entry.Src) {
		logging.WarnWithContext(logger, "original path is occupied", services.EventType(services.ErrDestinationConflict),
			logging.String("src", entry.Src),
			logging.String("dst", entry.Dst),
			logging.String(logging.FieldErrorHint, "move the occupant away and undo again"),
			logging.String(logging.FieldImpact, "entry skipped"),
		)
		report.Skipped = append(report.Skipped, Unexpected{Path: entry.Src, Reason: "source exists"})
		return
	}
	if err := os.MkdirAll(filepath.Dir(entry.Src), 0o755); err != nil {
		recordUndoFailure(logger, report, entry.Src, services.Wrap(services.ErrIO, "undo", "mkdir", filepath.Dir(entry.Src), err))
		return
	}
	if err := mover.Relocate(entry.Dst, entry.Src, nil); err != nil {
		recordUndoFailure(logger, report, entry.Src, err)
		return
	}
	logger.Info("restored", logging.String("path", entry.Src), logging.String("from", entry.Dst))
	report.Restored++
}

func recordUndoFailure(logger *slog.Logger, report *UndoReport, path string, err error) {
	logging.WarnWithContext(logger, "restore failed", services.EventType(err),
		logging.String("path", path),
		logging.Error(err),
	)
	report.Failures = append(report.Failures, Failure{Path: path, Err: err})
}
