package naming

import "strings"

// ExtSet is a set of lower-cased file extensions including the leading dot.
type ExtSet map[string]struct{}

func newExtSet(exts ...string) ExtSet {
	set := make(ExtSet, len(exts))
	for _, ext := range exts {
		set[ext] = struct{}{}
	}
	return set
}

// Has reports whether ext (any case) is in the set.
func (s ExtSet) Has(ext string) bool {
	_, ok := s[strings.ToLower(ext)]
	return ok
}

func union(sets ...ExtSet) ExtSet {
	out := make(ExtSet)
	for _, set := range sets {
		for ext := range set {
			out[ext] = struct{}{}
		}
	}
	return out
}

var (
	VideoExts    = newExtSet(".mkv", ".mp4", ".avi", ".mov", ".m4v", ".wmv")
	SubtitleExts = newExtSet(".srt", ".sub", ".idx", ".vtt", ".ass", ".ssa")
	ImageExts    = newExtSet(".jpg", ".jpeg", ".png", ".gif", ".bmp")
	JunkExts     = newExtSet(".ds_store", ".rar", ".r00", ".r01", ".sfv", ".nzb", ".par2", ".srr")
	InfoExts     = newExtSet(".nfo", ".txt")

	tvSidecarExts   = union(SubtitleExts, InfoExts)
	movieDeleteExts = union(JunkExts, InfoExts)
	knownExts       = union(VideoExts, SubtitleExts, ImageExts, JunkExts, InfoExts)
)

// stripKnownExt removes a trailing extension only when it is one this package
// recognizes, so "2001.A.Space.Odyssey.1968" keeps its final segment.
func stripKnownExt(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return name
	}
	if knownExts.Has(name[idx:]) {
		return name[:idx]
	}
	return name
}
