package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"cleanmedia/internal/config"
	"cleanmedia/internal/lock"
	"cleanmedia/internal/logging"
	"cleanmedia/internal/naming"
	"cleanmedia/internal/organizer"
	"cleanmedia/internal/preflight"
	"cleanmedia/internal/services/tmdb"
	"cleanmedia/internal/textutil"
)

type runFlags struct {
	kind         string
	commit       bool
	plan         bool
	quarantine   string
	lookup       bool
	purgeForeign bool
	ignore       []string
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <root>",
		Short: "Reorganize a library root (dry run unless --commit)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			grammar, err := ctx.grammar(flags.kind)
			if err != nil {
				return err
			}
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve root: %w", err)
			}

			opts := runOptions(cfg, flags, root)
			orgOpts := []organizer.Option{}

			if lookup := newLookup(cfg, grammar, flags.lookup, logger); lookup != nil {
				orgOpts = append(orgOpts, organizer.WithLookup(lookup))
			}

			if opts.Commit || opts.Plan {
				store, err := ctx.openHistory(cmd.Context())
				if err != nil {
					logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
						logging.String(logging.FieldErrorHint, "check paths.history_db"),
						logging.String(logging.FieldImpact, "run missing from history"),
						logging.Error(err),
					)
				} else if store != nil {
					defer store.Close()
					orgOpts = append(orgOpts, organizer.WithRecorder(store))
				}
			}

			if opts.Commit {
				if check := preflight.CheckDirectoryAccess("Library root", root); !check.Passed {
					return fmt.Errorf("library root not writable: %s", check.Detail)
				}
				rootLock, err := lock.Acquire(root)
				if err != nil {
					return err
				}
				defer rootLock.Release()
			}

			report, err := organizer.NewOrganizer(grammar, logger, orgOpts...).Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printRunReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.kind, "kind", "", "Media kind: tv or movie (default from config)")
	cmd.Flags().BoolVar(&flags.commit, "commit", false, "Apply changes instead of a dry run")
	cmd.Flags().BoolVar(&flags.plan, "plan", false, "Write the journal even for a dry run")
	cmd.Flags().StringVar(&flags.quarantine, "quarantine", "", "Move samples here instead of deleting them")
	cmd.Flags().BoolVar(&flags.lookup, "lookup", false, "Look up missing movie years on TMDB")
	cmd.Flags().BoolVar(&flags.purgeForeign, "purge-foreign-subs", false, "Delete non-English subtitles everywhere, not only in release folders")
	cmd.Flags().StringArrayVar(&flags.ignore, "ignore", nil, "Glob (relative to root) to leave untouched; repeatable")
	return cmd
}

func runOptions(cfg *config.Config, flags runFlags, root string) organizer.Options {
	quarantine := strings.TrimSpace(flags.quarantine)
	if quarantine == "" {
		quarantine = cfg.Paths.QuarantineDir
	} else if expanded, err := config.ExpandPath(quarantine); err == nil {
		quarantine = expanded
	}
	ignore := append([]string{}, cfg.Organizer.Ignore...)
	ignore = append(ignore, flags.ignore...)
	return organizer.Options{
		Root:                  root,
		Commit:                flags.commit,
		Plan:                  flags.plan,
		Quarantine:            quarantine,
		Ignore:                ignore,
		PurgeForeignSubtitles: flags.purgeForeign || cfg.Organizer.PurgeForeignSubtitles,
		TouchDepth:            cfg.Organizer.TouchParentDepth,
	}
}

// newLookup returns a TMDB client for movie runs when lookup is requested on
// the command line or enabled in config, and nil otherwise.
func newLookup(cfg *config.Config, grammar naming.MediaGrammar, requested bool, logger *slog.Logger) *tmdb.Client {
	if grammar.Kind() != naming.MediaMovie {
		return nil
	}
	if !requested && !cfg.LookupEnabled() {
		return nil
	}
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithMinInterval(cfg.TMDBMinInterval()),
		tmdb.WithLogger(logger),
	)
	if err != nil {
		logging.WarnWithContext(logger, "year lookup disabled", "lookup_unavailable",
			logging.String(logging.FieldErrorHint, "set tmdb.api_key or TMDB_API_KEY"),
			logging.String(logging.FieldImpact, "movies without a year stay unparsed"),
			logging.Error(err),
		)
		return nil
	}
	return client
}

func printRunReport(out io.Writer, report organizer.RunReport) {
	mode := textutil.Ternary(report.Commit, "Commit", "Dry run")
	fmt.Fprintf(out, "%s %s (%s, run %s)\n", mode, report.Root, report.Kind, report.RunID)

	rows := make([][]string, 0, len(organizer.Outcomes()))
	for _, outcome := range organizer.Outcomes() {
		if n := report.Count(outcome); n > 0 {
			rows = append(rows, []string{outcome.String(), fmt.Sprintf("%d", n)})
		}
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(out, []string{"Outcome", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
	}
	fmt.Fprintf(out, "Operations: %d\n", report.Operations)

	if len(report.Unexpected) > 0 {
		fmt.Fprintln(out, "\nUnexpected files:")
		for _, u := range report.Unexpected {
			fmt.Fprintf(out, "  %s (%s)\n", u.Path, u.Reason)
		}
	}
	if len(report.RemainingFolders) > 0 {
		fmt.Fprintln(out, "\nNon-clean folders still present:")
		for _, dir := range report.RemainingFolders {
			fmt.Fprintf(out, "  %s\n", dir)
		}
	}
	if len(report.Failures) > 0 {
		fmt.Fprintln(out, "\nFailures:")
		for _, f := range report.Failures {
			fmt.Fprintf(out, "  %s: %v\n", f.Path, f.Err)
		}
	}
	if report.JournalPath != "" {
		fmt.Fprintf(out, "\nJournal: %s\n", report.JournalPath)
	}
}
