package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cleanmedia/internal/classify"
	"cleanmedia/internal/conflict"
	"cleanmedia/internal/fileutil"
	"cleanmedia/internal/history"
	"cleanmedia/internal/journal"
	"cleanmedia/internal/lock"
	"cleanmedia/internal/logging"
	"cleanmedia/internal/mover"
	"cleanmedia/internal/naming"
	"cleanmedia/internal/services"
)

// Recorder persists a summary of each run.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (history.Run, error)
}

// Organizer reorganizes one media library root per Run.
type Organizer struct {
	grammar  naming.MediaGrammar
	logger   *slog.Logger
	lookup   classify.YearLookup
	recorder Recorder
	rename   mover.RenameFunc
	now      func() time.Time
}

// Option customizes an Organizer.
type Option func(*Organizer)

// WithLookup enables year lookup for movies whose names carry no year.
func WithLookup(lookup classify.YearLookup) Option {
	return func(o *Organizer) { o.lookup = lookup }
}

// WithRecorder stores a history row after each run.
func WithRecorder(r Recorder) Option {
	return func(o *Organizer) { o.recorder = r }
}

// WithClock overrides time.Now; journal names derive from it.
func WithClock(now func() time.Time) Option {
	return func(o *Organizer) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRename overrides the rename used for moves.
func WithRename(fn mover.RenameFunc) Option {
	return func(o *Organizer) { o.rename = fn }
}

// NewOrganizer constructs an organizer for one media grammar.
func NewOrganizer(grammar naming.MediaGrammar, logger *slog.Logger, opts ...Option) *Organizer {
	o := &Organizer{
		grammar: grammar,
		logger:  logging.NewComponentLogger(logger, grammar.Service()),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Options controls a single run.
type Options struct {
	Root string
	// Commit applies mutations. Without it the run only reports and journals.
	Commit bool
	// Plan writes the journal even for a dry run.
	Plan bool
	// Quarantine receives samples instead of deleting them.
	Quarantine string
	// Ignore holds doublestar globs, relative to Root, excluded from the run.
	Ignore                []string
	PurgeForeignSubtitles bool
	// TouchDepth is how many folder levels above a moved file get their
	// mtime refreshed. Zero disables touching.
	TouchDepth int
	// RunID defaults to a fresh uuid.
	RunID string
}

// DefaultTouchDepth touches the show folder for episodes.
const DefaultTouchDepth = 2

// IsEngineFile reports whether name is state written by the engine itself.
func IsEngineFile(name string) bool {
	return journal.IsJournalName(name) || lock.IsLockFile(name)
}

// Run reorganizes opts.Root. Only setup failures and journal write failures
// are returned; per-file errors are counted in the report.
func (o *Organizer) Run(ctx context.Context, opts Options) (RunReport, error) {
	report := newRunReport()
	root, err := resolveRoot(opts.Root)
	if err != nil {
		return report, err
	}
	quarantine := ""
	if opts.Quarantine != "" {
		if quarantine, err = filepath.Abs(opts.Quarantine); err != nil {
			return report, services.Wrap(services.ErrValidation, "organizer", "quarantine", opts.Quarantine, err)
		}
	}

	runID := opts.RunID
	if runID == "" {
		runID = history.NewRunID()
	}
	kind := string(o.grammar.Kind())
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithKind(ctx, kind)
	logger := logging.WithContext(ctx, o.logger)

	report.RunID = runID
	report.Root = root
	report.Kind = kind
	report.Commit = opts.Commit
	report.Plan = opts.Plan
	report.StartedAt = o.now()

	logger.Info("organizing library",
		logging.String("root", root),
		logging.Bool("commit", opts.Commit),
		logging.String("quarantine", quarantine),
	)

	s := scope{root: root, quarantine: quarantine, ignore: opts.Ignore}
	files, err := snapshot(s, logger)
	if err != nil {
		return report, services.Wrap(services.ErrIO, "organizer", "snapshot", root, err)
	}

	j := &journal.Journal{}
	classifier := classify.New(o.grammar, root, IsEngineFile)
	if o.lookup != nil {
		classifier.WithLookup(o.lookup)
	}
	classifier.PurgeForeignSubtitles = opts.PurgeForeignSubtitles

	st := &runState{
		root:       root,
		quarantine: quarantine,
		grammar:    o.grammar,
		classifier: classifier,
		mover:      mover.New(j, opts.Commit, logger, mover.WithRename(o.rename), mover.WithTouchDepth(opts.TouchDepth)),
		logger:     logger,
		claims:     make(map[string]string),
		removed:    make(removedSet),
		tracked:    make(trackedFolders),
		report:     &report,
	}
	for _, path := range files {
		report.Counts[st.process(ctx, path)]++
	}

	planned := newPlannedSet(root, st.claims)
	reapLogger := logging.WithContext(services.WithStage(ctx, "reap"), o.logger)
	if err := reap(s, st.mover, st.removed, planned, reapLogger); err != nil {
		logging.WarnWithContext(reapLogger, "folder cleanup incomplete", "reap_failed",
			logging.String("root", root),
			logging.Error(err),
		)
	}
	st.tracked.merge(foldersWithoutVideo(s, st.removed, planned, o.grammar.VideoExts()))
	report.RemainingFolders = st.tracked.remaining(root, func(dir string) bool {
		return st.removed.covers(root, dir)
	})
	report.Operations = j.Len()

	if opts.Commit || opts.Plan {
		path := freeJournalPath(root, o.grammar.Service(), report.StartedAt)
		if err := j.Save(path); err != nil {
			report.FinishedAt = o.now()
			logging.ErrorWithContext(logger, "journal not written", services.EventType(services.ErrIO),
				logging.String("journal", path),
				logging.Int("operations", report.Operations),
				logging.String(logging.FieldErrorHint, "check free space and permissions on the library root"),
				logging.Error(err),
			)
			return report, services.Wrap(services.ErrIO, "organizer", "write journal", path, err)
		}
		report.JournalPath = path
	}
	report.FinishedAt = o.now()

	o.logSummary(logger, report)
	o.record(ctx, logger, report)
	return report, nil
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		return "", services.Wrap(services.ErrValidation, "organizer", "root", "root is required", nil)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "organizer", "root", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "organizer", "root", abs, err)
	}
	if !info.IsDir() {
		return "", services.Wrap(services.ErrValidation, "organizer", "root", abs+" is not a directory", nil)
	}
	return abs, nil
}

// freeJournalPath returns the journal path for at, advancing by a second
// while an earlier run in the same second already owns the name.
func freeJournalPath(root, service string, at time.Time) string {
	for {
		path := filepath.Join(root, journal.FileName(service, at))
		if !fileutil.Exists(path) {
			return path
		}
		at = at.Add(time.Second)
	}
}

func (o *Organizer) logSummary(logger *slog.Logger, report RunReport) {
	attrs := []logging.Attr{
		logging.Int("files", report.Files()),
		logging.Int("operations", report.Operations),
		logging.Int("unexpected", len(report.Unexpected)),
		logging.Int("failed", len(report.Failures)),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	}
	for _, outcome := range Outcomes() {
		if n := report.Count(outcome); n > 0 {
			attrs = append(attrs, logging.Int(outcome.String(), n))
		}
	}
	if report.JournalPath != "" {
		attrs = append(attrs, logging.String("journal", report.JournalPath))
	}
	logger.Info("organize complete", logging.Args(attrs...)...)

	for _, u := range report.Unexpected {
		logger.Info("unexpected file", logging.String("path", u.Path), logging.String("reason", u.Reason))
	}
	for _, dir := range report.RemainingFolders {
		logging.WarnWithContext(logger, "non-clean folder still exists", "folder_remaining",
			logging.String("dir", dir),
			logging.String(logging.FieldErrorHint, "review the folder contents by hand"),
			logging.String(logging.FieldImpact, "folder left in place"),
		)
	}
}

func (o *Organizer) record(ctx context.Context, logger *slog.Logger, report RunReport) {
	if o.recorder == nil {
		return
	}
	run := history.Run{
		ID:          report.RunID,
		Root:        report.Root,
		Kind:        report.Kind,
		Commit:      report.Commit,
		Plan:        report.Plan,
		StartedAt:   report.StartedAt,
		FinishedAt:  report.FinishedAt,
		JournalPath: report.JournalPath,
		Counts:      report.CountsByName(),
		Unexpected:  len(report.Unexpected),
		Failed:      len(report.Failures),
	}
	if _, err := o.recorder.Record(ctx, run); err != nil {
		logging.WarnWithContext(logger, "run history not recorded", "history_write_failed",
			logging.String(logging.FieldErrorHint, "check the history database path"),
			logging.String(logging.FieldImpact, "run missing from history"),
			logging.Error(err),
		)
	}
}

// runState carries the per-run accumulators through the walk.
type runState struct {
	root       string
	quarantine string
	grammar    naming.MediaGrammar
	classifier *classify.Classifier
	mover      *mover.Mover
	logger     *slog.Logger
	// claims maps a destination to the source placed there earlier in the
	// run, so dry runs see occupants that only exist in the plan.
	claims  map[string]string
	removed removedSet
	tracked trackedFolders
	report  *RunReport
}

func (st *runState) claim(dest string) (string, bool) {
	src, ok := st.claims[dest]
	return src, ok
}

func (st *runState) process(ctx context.Context, path string) Outcome {
	if st.removed.covers(st.root, path) {
		// Inside a sample folder that was already quarantined whole.
		return OutcomeQuarantinedSample
	}
	entry := classify.NewEntry(path)
	decision := st.classifier.Classify(ctx, entry)
	if decision.Role == classify.Ignored {
		return OutcomeIgnored
	}
	st.track(path)

	switch decision.Role {
	case classify.Sample:
		return st.quarantineSample(path)
	case classify.Video, classify.Sidecar:
		return st.place(path, entry, decision)
	case classify.Unknown:
		st.logger.Info("skipping unknown file", logging.String("path", path))
		st.unexpected(path, decision.Role.Reason())
		return OutcomeSkippedUnknown
	}
	if decision.Role.Deletes() {
		if err := st.delete(path, decision.Role.String()); err != nil {
			return st.fail(path, err)
		}
		if reason := decision.Role.Reason(); reason != "" {
			st.unexpected(path, reason)
		}
		return OutcomePurged
	}
	return OutcomeSkippedUnknown
}

// track records folders worth reporting if they survive the run: the
// top-level release folder and any non-canonical parent two levels down.
func (st *runState) track(path string) {
	parent := filepath.Dir(path)
	if parent == st.root {
		return
	}
	rel, err := filepath.Rel(st.root, parent)
	if err != nil {
		return
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	top := filepath.Join(st.root, parts[0])
	if st.grammar.IsReleaseFolder(parts[0]) {
		st.tracked.add(top)
	}
	if len(parts) >= 2 && !st.grammar.IsCleanFolder(filepath.Base(parent)) {
		st.tracked.add(parent)
	}
}

func (st *runState) place(path string, entry classify.Entry, decision classify.Decision) Outcome {
	if !decision.Identity.Parsed() {
		st.logger.Info("skipping unparsed media", logging.String("path", path))
		st.unexpected(path, "unparsed media")
		return OutcomeSkippedUnparsed
	}
	dest := st.grammar.SidecarDest(st.root, decision.Identity, entry.Name())
	if decision.Role == classify.Video {
		dest = st.grammar.VideoDest(st.root, decision.Identity, entry.Ext)
	}

	res, err := conflict.Resolve(path, dest, st.claim)
	if err != nil {
		return st.fail(path, err)
	}
	switch res.Action {
	case conflict.NoOp:
		st.logger.Debug("already placed", logging.String("path", path))
		return OutcomeSkippedAlreadyPlaced
	case conflict.Duplicate:
		if err := st.delete(path, "duplicate"); err != nil {
			return st.fail(path, err)
		}
		st.logger.Info("removed duplicate", logging.String("path", path), logging.String("matches", res.Dest))
		return OutcomeDuplicateRemoved
	}

	if !st.grammar.IsCleanFolder(filepath.Base(filepath.Dir(path))) && filepath.Dir(path) != st.root {
		st.tracked.add(filepath.Dir(path))
	}
	if err := st.mover.Move(path, res.Dest); err != nil {
		return st.fail(path, err)
	}
	st.claims[res.Dest] = path
	st.removed.add(path)
	if res.Action == conflict.Alternate {
		logging.WarnWithContext(st.logger, "destination occupied, moved to alternate", services.EventType(services.ErrDestinationConflict),
			logging.String("src", path),
			logging.String("dst", res.Dest),
			logging.String(logging.FieldErrorHint, "compare the alternate with the original and keep one"),
			logging.String(logging.FieldImpact, "alternate copy kept"),
		)
		return OutcomeAlternateMoved
	}
	st.logger.Info("moved", logging.String("src", path), logging.String("dst", res.Dest))
	return OutcomeMoved
}

// quarantineSample moves a sample into the quarantine directory, or deletes
// it when no quarantine is configured or the quarantined name is taken. A
// sample folder inside a release is moved as a whole.
func (st *runState) quarantineSample(path string) Outcome {
	src, dst, isDir := path, filepath.Join(st.quarantine, filepath.Base(path)), false
	if dir := filepath.Dir(path); st.quarantine != "" && dir != st.root && isSampleFolder(filepath.Base(dir)) {
		src, isDir = dir, true
		dst = filepath.Join(st.quarantine, filepath.Base(dir))
		if release := filepath.Dir(dir); release != st.root {
			dst = filepath.Join(st.quarantine, filepath.Base(release), filepath.Base(dir))
		}
	}
	st.unexpected(src, classify.Sample.Reason())

	if st.quarantine == "" {
		if err := st.delete(src, "sample"); err != nil {
			return st.fail(path, err)
		}
		return OutcomeQuarantinedSample
	}
	if fileutil.Exists(dst) {
		logging.WarnWithContext(st.logger, "quarantine destination exists, deleting sample", services.EventType(services.ErrDestinationConflict),
			logging.String("src", src),
			logging.String("dst", dst),
			logging.String(logging.FieldImpact, "sample deleted"),
		)
		if err := st.delete(src, "sample"); err != nil {
			return st.fail(path, err)
		}
		return OutcomeQuarantinedSample
	}

	move := st.mover.Move
	if isDir {
		move = st.mover.MoveDir
	}
	if err := move(src, dst); err != nil {
		return st.fail(path, err)
	}
	st.removed.add(src)
	st.logger.Info("quarantined sample", logging.String("src", src), logging.String("dst", dst))
	return OutcomeQuarantinedSample
}

func isSampleFolder(name string) bool {
	lower := strings.ToLower(name)
	return lower == "sample" || lower == "samples"
}

func (st *runState) delete(path, reason string) error {
	if err := st.mover.Delete(path); err != nil {
		return err
	}
	st.removed.add(path)
	st.logger.Info("deleted", logging.String("path", path), logging.String("reason", reason))
	return nil
}

func (st *runState) unexpected(path, reason string) {
	st.report.Unexpected = append(st.report.Unexpected, Unexpected{Path: path, Reason: reason})
}

func (st *runState) fail(path string, err error) Outcome {
	logging.WarnWithContext(st.logger, "file processing failed", services.EventType(err),
		logging.String("path", path),
		logging.String(logging.FieldErrorHint, fmt.Sprintf("inspect %s and rerun", filepath.Base(path))),
		logging.Error(err),
	)
	st.report.Failures = append(st.report.Failures, Failure{Path: path, Err: err})
	return OutcomeFailed
}
