package organizer

import (
	"path/filepath"
	"sort"

	"cleanmedia/internal/fileutil"
)

// trackedFolders collects non-canonical folders seen during a run so the
// report can list the ones that survived it.
type trackedFolders map[string]struct{}

func (t trackedFolders) add(dir string) {
	t[filepath.Clean(dir)] = struct{}{}
}

func (t trackedFolders) merge(other trackedFolders) {
	for dir := range other {
		t[dir] = struct{}{}
	}
}

// remaining returns tracked folders that still exist, excluding root and
// anything removed (or, in a dry run, planned for removal). Sorted.
func (t trackedFolders) remaining(root string, removed func(string) bool) []string {
	out := make([]string, 0, len(t))
	for dir := range t {
		if dir == root || removed(dir) || !fileutil.Exists(dir) {
			continue
		}
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}
