package mover

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"cleanmedia/internal/fileutil"
	"cleanmedia/internal/journal"
	"cleanmedia/internal/logging"
	"cleanmedia/internal/services"
)

// ErrDestinationExists is returned by Move and MoveDir when dst is occupied.
// Conflict resolution must run before the mover is called.
var ErrDestinationExists = errors.New("destination exists")

// RenameFunc renames src to dst.
type RenameFunc func(src, dst string) error

// Mover performs journaled filesystem mutations. In dry-run mode it records
// what it would do and leaves the filesystem untouched.
type Mover struct {
	commit     bool
	journal    *journal.Journal
	logger     *slog.Logger
	rename     RenameFunc
	touchDepth int
	now        func() time.Time
}

// Option customizes a Mover.
type Option func(*Mover)

// WithRename replaces os.Rename (tests use it to simulate cross-device moves).
func WithRename(fn RenameFunc) Option {
	return func(m *Mover) {
		if fn != nil {
			m.rename = fn
		}
	}
}

// WithTouchDepth sets how many levels above a moved file get their mtime
// refreshed: 1 touches the destination folder, 2 its parent (the show folder
// for episodes). Zero disables touching.
func WithTouchDepth(depth int) Option {
	return func(m *Mover) {
		if depth >= 0 {
			m.touchDepth = depth
		}
	}
}

// New constructs a mover that appends to j.
func New(j *journal.Journal, commit bool, logger *slog.Logger, opts ...Option) *Mover {
	m := &Mover{
		commit:     commit,
		journal:    j,
		logger:     logging.NewComponentLogger(logger, "mover"),
		rename:     os.Rename,
		touchDepth: 2,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Committing reports whether mutations reach the filesystem.
func (m *Mover) Committing() bool { return m.commit }

// Move relocates a file. dst must not exist.
func (m *Mover) Move(src, dst string) error {
	if fileutil.Exists(dst) {
		return services.Wrap(services.ErrDestinationConflict, "mover", "move", dst, ErrDestinationExists)
	}
	if m.commit {
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return services.Wrap(services.ErrIO, "mover", "mkdir", filepath.Dir(dst), err)
		}
		if err := Relocate(src, dst, m.rename); err != nil {
			return err
		}
		m.touch(dst)
	}
	m.journal.Append(journal.Entry{Op: journal.OpMove, Src: src, Dst: dst})
	return nil
}

// MoveDir relocates a directory tree. dst must not exist.
func (m *Mover) MoveDir(src, dst string) error {
	if fileutil.Exists(dst) {
		return services.Wrap(services.ErrDestinationConflict, "mover", "move_dir", dst, ErrDestinationExists)
	}
	if m.commit {
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return services.Wrap(services.ErrIO, "mover", "mkdir", filepath.Dir(dst), err)
		}
		if err := Relocate(src, dst, m.rename); err != nil {
			return err
		}
	}
	m.journal.Append(journal.Entry{Op: journal.OpMoveDir, Src: src, Dst: dst})
	return nil
}

// Delete removes a file, or a directory recursively.
func (m *Mover) Delete(path string) error {
	if m.commit {
		if err := os.RemoveAll(path); err != nil {
			return services.Wrap(services.ErrIO, "mover", "delete", path, err)
		}
	}
	m.journal.Append(journal.Entry{Op: journal.OpDelete, Src: path})
	return nil
}

// Relocate renames src to dst, falling back to copy + sync + remove when the
// rename crosses filesystems. Works for files and directory trees.
func Relocate(src, dst string, rename RenameFunc) error {
	if rename == nil {
		rename = os.Rename
	}
	err := rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return services.Wrap(services.ErrIO, "mover", "rename", src, err)
	}

	info, statErr := os.Lstat(src)
	if statErr != nil {
		return services.Wrap(services.ErrIO, "mover", "stat", src, statErr)
	}
	var copyErr error
	if info.IsDir() {
		copyErr = fileutil.CopyTree(src, dst)
	} else {
		copyErr = fileutil.CopyFile(src, dst)
	}
	if copyErr != nil {
		_ = os.RemoveAll(dst)
		return services.Wrap(services.ErrCrossDevice, "mover", "copy", fmt.Sprintf("%s -> %s", src, dst), copyErr)
	}
	if err := os.RemoveAll(src); err != nil {
		return services.Wrap(services.ErrCrossDevice, "mover", "remove source", src, err)
	}
	return nil
}

func (m *Mover) touch(dst string) {
	if m.touchDepth <= 0 {
		return
	}
	folder := filepath.Dir(dst)
	for i := 1; i < m.touchDepth; i++ {
		parent := filepath.Dir(folder)
		if parent == folder {
			break
		}
		folder = parent
	}
	now := m.now()
	if err := os.Chtimes(folder, now, now); err != nil {
		m.logger.Debug("touch folder failed", logging.String("folder", folder), logging.Error(err))
	}
}
