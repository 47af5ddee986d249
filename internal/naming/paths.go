package naming

import (
	"path/filepath"
	"strings"

	"cleanmedia/internal/textutil"
)

const unknownShow = "Unknown Show"

func showFolder(id Identity) string {
	folder := textutil.SanitizeFileName(id.Show)
	if folder == "" {
		return unknownShow
	}
	return folder
}

func episodeBase(id Identity) (dir, base string) {
	folder := showFolder(id)
	dir = filepath.Join(folder, "Season "+id.Season)
	base = strings.Join(strings.Fields(folder), ".") + ".S" + id.Season + "E" + id.Episode
	return dir, base
}

func movieBase(id Identity) string {
	return textutil.SanitizeFileName(id.Title) + " (" + id.Year + ")"
}

// EpisodeVideoPath returns root/Show/Season SS/Show.Name.SxxEyy.ext.
func EpisodeVideoPath(root string, id Identity, ext string) string {
	dir, base := episodeBase(id)
	return filepath.Join(root, dir, base+strings.ToLower(ext))
}

// EpisodeSidecarPath mirrors the video name, keeping any non-English language
// tag and modifiers from the original sidecar name.
func EpisodeSidecarPath(root string, id Identity, name string) string {
	dir, base := episodeBase(id)
	return filepath.Join(root, dir, withSuffix(base, SidecarSuffix(name, false), filepath.Ext(name)))
}

// MovieVideoPath returns root/Title (Year)/Title (Year).ext.
func MovieVideoPath(root string, id Identity, ext string) string {
	base := movieBase(id)
	return filepath.Join(root, base, base+strings.ToLower(ext))
}

// MovieSidecarPath returns root/Title (Year)/Title (Year)[.lang][.mod].ext.
func MovieSidecarPath(root string, id Identity, name string) string {
	base := movieBase(id)
	return filepath.Join(root, base, withSuffix(base, SidecarSuffix(name, true), filepath.Ext(name)))
}

func withSuffix(base, suffix, ext string) string {
	if suffix != "" {
		base += "." + suffix
	}
	return base + strings.ToLower(ext)
}
