package organizer

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/karrick/godirwalk"

	"cleanmedia/internal/classify"
	"cleanmedia/internal/logging"
	"cleanmedia/internal/mover"
	"cleanmedia/internal/naming"
)

// scope decides which parts of the tree a run may look at.
type scope struct {
	root       string
	quarantine string
	ignore     []string
}

// excluded reports whether path is the quarantine tree or matches an ignore
// glob. Globs match slash-separated paths relative to root.
func (s scope) excluded(path string) bool {
	if s.quarantine != "" && within(s.quarantine, path) {
		return true
	}
	if len(s.ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	if dir == path {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// snapshot lists every regular file below root, sorted, before anything is
// mutated. Unreadable entries are logged and skipped.
func snapshot(s scope, logger *slog.Logger) ([]string, error) {
	var files []string
	err := godirwalk.Walk(s.root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if osPathname == s.root {
				return nil
			}
			if s.excluded(osPathname) {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}
			if de.IsRegular() {
				files = append(files, osPathname)
			}
			return nil
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			logger.Warn("skipping unreadable path",
				logging.String("path", osPathname),
				logging.Error(err),
			)
			return godirwalk.SkipNode
		},
	})
	sort.Strings(files)
	return files, err
}

// removedSet holds paths a run moved or deleted. In a dry run it stands in
// for the filesystem state the run would have produced.
type removedSet map[string]struct{}

func (r removedSet) add(path string) { r[path] = struct{}{} }

// covers reports whether path or one of its ancestors up to root was removed.
func (r removedSet) covers(root, path string) bool {
	for p := path; ; {
		if _, ok := r[p]; ok {
			return true
		}
		if p == root {
			return false
		}
		parent := filepath.Dir(p)
		if parent == p {
			return false
		}
		p = parent
	}
}

// plannedSet holds the destinations the run placed files at, with every
// directory between them and root. A dry run never creates those folders,
// so reaping and the folder report consult this set instead of the disk.
type plannedSet struct {
	dirs  map[string]struct{}
	files []string
}

func newPlannedSet(root string, claims map[string]string) plannedSet {
	p := plannedSet{dirs: make(map[string]struct{})}
	for dest := range claims {
		p.files = append(p.files, dest)
		for dir := filepath.Dir(dest); dir != root && within(root, dir); dir = filepath.Dir(dir) {
			if _, seen := p.dirs[dir]; seen {
				break
			}
			p.dirs[dir] = struct{}{}
		}
	}
	sort.Strings(p.files)
	return p
}

// holds reports whether a planned destination lies below dir.
func (p plannedSet) holds(dir string) bool {
	_, ok := p.dirs[dir]
	return ok
}

// reap removes, bottom-up, every screenshots folder and
// every directory left without visible entries. Hidden directories, excluded
// trees and the root are kept, as are ancestors of the quarantine directory
// and of any destination the run placed a file at.
func reap(s scope, m *mover.Mover, removed removedSet, planned plannedSet, logger *slog.Logger) error {
	return godirwalk.Walk(s.root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if !de.IsDir() || osPathname == s.root {
				return nil
			}
			if hidden(osPathname) || s.excluded(osPathname) || removed.covers(s.root, osPathname) {
				return godirwalk.SkipThis
			}
			return nil
		},
		PostChildrenCallback: func(osPathname string, _ *godirwalk.Dirent) error {
			if osPathname == s.root || hidden(osPathname) || s.excluded(osPathname) {
				return nil
			}
			if s.quarantine != "" && within(osPathname, s.quarantine) {
				return nil
			}
			if removed.covers(s.root, osPathname) || planned.holds(osPathname) {
				return nil
			}
			reason := ""
			if classify.IsScreensFolder(filepath.Base(osPathname)) {
				reason = "screens folder"
			} else if empty, err := visiblyEmpty(osPathname, removed); err != nil {
				logger.Debug("reap read failed", logging.String("dir", osPathname), logging.Error(err))
				return nil
			} else if empty {
				reason = "empty folder"
			}
			if reason == "" {
				return nil
			}
			if err := m.Delete(osPathname); err != nil {
				logging.WarnWithContext(logger, "folder removal failed", "reap_failed",
					logging.String("dir", osPathname),
					logging.String(logging.FieldErrorHint, "check folder permissions"),
					logging.Error(err),
				)
				return nil
			}
			logger.Info("removed folder",
				logging.String("dir", osPathname),
				logging.String("reason", reason),
			)
			removed.add(osPathname)
			return nil
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			logger.Debug("reap skipping path", logging.String("path", osPathname), logging.Error(err))
			return godirwalk.SkipNode
		},
	})
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// visiblyEmpty reports whether dir holds no non-dot entry that survives the run.
func visiblyEmpty(dir string, removed removedSet) (bool, error) {
	names, err := godirwalk.ReadDirnames(dir, nil)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := removed[filepath.Join(dir, name)]; ok {
			continue
		}
		return false, nil
	}
	return true, nil
}

// foldersWithoutVideo returns top-level folders that still hold subfolders
// but no video file once the run's removals and placements are accounted for.
func foldersWithoutVideo(s scope, removed removedSet, planned plannedSet, videoExts naming.ExtSet) trackedFolders {
	out := make(trackedFolders)
	entries, err := godirwalk.ReadDirents(s.root, nil)
	if err != nil {
		return out
	}
	for _, de := range entries {
		top := filepath.Join(s.root, de.Name())
		if !de.IsDir() || s.excluded(top) || removed.covers(s.root, top) {
			continue
		}
		nested, media := false, false
		_ = godirwalk.Walk(top, &godirwalk.Options{
			Unsorted: true,
			Callback: func(osPathname string, d *godirwalk.Dirent) error {
				if osPathname == top {
					return nil
				}
				if removed.covers(s.root, osPathname) || s.excluded(osPathname) {
					if d.IsDir() {
						return godirwalk.SkipThis
					}
					return nil
				}
				if d.IsDir() {
					nested = true
					return nil
				}
				if videoExts.Has(strings.ToLower(filepath.Ext(osPathname))) {
					media = true
				}
				return nil
			},
			ErrorCallback: func(string, error) godirwalk.ErrorAction { return godirwalk.SkipNode },
		})
		for _, dest := range planned.files {
			if !within(top, dest) {
				continue
			}
			if filepath.Dir(dest) != top {
				nested = true
			}
			if videoExts.Has(strings.ToLower(filepath.Ext(dest))) {
				media = true
			}
		}
		if nested && !media {
			out.add(top)
		}
	}
	return out
}
