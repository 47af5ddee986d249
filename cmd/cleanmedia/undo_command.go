package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cleanmedia/internal/config"
	"cleanmedia/internal/history"
	"cleanmedia/internal/journal"
	"cleanmedia/internal/lock"
	"cleanmedia/internal/logging"
	"cleanmedia/internal/organizer"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var (
		last bool
		root string
		kind string
	)

	cmd := &cobra.Command{
		Use:   "undo [journal]",
		Short: "Reverse the moves recorded in a run journal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var store *history.Store
			if s, err := ctx.openHistory(cmd.Context()); err != nil {
				logger.Debug("history unavailable for undo", logging.Error(err))
			} else if s != nil {
				store = s
				defer store.Close()
			}

			var journalPath string
			switch {
			case len(args) == 1 && last:
				return errors.New("pass either a journal path or --last, not both")
			case len(args) == 1:
				if journalPath, err = config.ExpandPath(args[0]); err != nil {
					return fmt.Errorf("resolve journal path: %w", err)
				}
			case last:
				if strings.TrimSpace(root) == "" {
					return errors.New("--last requires --root")
				}
				expanded, err := config.ExpandPath(root)
				if err != nil {
					return fmt.Errorf("resolve root: %w", err)
				}
				grammar, err := ctx.grammar(kind)
				if err != nil {
					return err
				}
				if journalPath, err = latestJournal(cmd.Context(), store, expanded, grammar.Service()); err != nil {
					return err
				}
			default:
				return errors.New("journal path or --last --root is required")
			}

			rootLock, err := lock.Acquire(filepath.Dir(journalPath))
			if err != nil {
				return err
			}
			defer rootLock.Release()

			report, err := organizer.Undo(cmd.Context(), journalPath, logger)
			if err != nil {
				return err
			}
			if store != nil {
				markUndone(cmd.Context(), store, journalPath, logger)
			}
			printUndoReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&last, "last", false, "Undo the newest run for --root")
	cmd.Flags().StringVar(&root, "root", "", "Library root used with --last")
	cmd.Flags().StringVar(&kind, "kind", "", "Media kind used to find journals with --last (default from config)")
	return cmd
}

// latestJournal prefers the history store and falls back to scanning root
// for the newest journal file of service.
func latestJournal(ctx context.Context, store *history.Store, root, service string) (string, error) {
	if store != nil {
		run, err := store.Latest(ctx, root)
		if err == nil {
			if _, statErr := os.Stat(run.JournalPath); statErr == nil {
				return run.JournalPath, nil
			}
		} else if !errors.Is(err, history.ErrNoRuns) {
			return "", err
		}
	}
	path, err := journal.Latest(root, service)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("no %s journal found in %s", service, root)
		}
		return "", fmt.Errorf("find latest journal: %w", err)
	}
	return path, nil
}

func markUndone(ctx context.Context, store *history.Store, journalPath string, logger *slog.Logger) {
	if _, err := store.MarkUndone(ctx, journalPath, time.Now()); err != nil {
		logging.WarnWithContext(logger, "history not updated after undo", "history_write_failed",
			logging.String("journal", journalPath),
			logging.String(logging.FieldImpact, "undo --last may pick this run again"),
			logging.Error(err),
		)
	}
}

func printUndoReport(out io.Writer, report organizer.UndoReport) {
	fmt.Fprintf(out, "Undid %s\n", report.JournalPath)
	fmt.Fprintf(out, "Restored: %d\n", report.Restored)
	if len(report.Skipped) > 0 {
		fmt.Fprintln(out, "\nSkipped:")
		for _, s := range report.Skipped {
			fmt.Fprintf(out, "  %s (%s)\n", s.Path, s.Reason)
		}
	}
	if len(report.Lost) > 0 {
		fmt.Fprintln(out, "\nDeleted by the run (not restorable):")
		for _, path := range report.Lost {
			fmt.Fprintf(out, "  %s\n", path)
		}
	}
	if len(report.Failures) > 0 {
		fmt.Fprintln(out, "\nFailures:")
		for _, f := range report.Failures {
			fmt.Fprintf(out, "  %s: %v\n", f.Path, f.Err)
		}
	}
}
