package classify

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"cleanmedia/internal/language"
	"cleanmedia/internal/naming"
)

// Role is the category a file falls into for one run.
type Role int

const (
	Unknown Role = iota
	Ignored
	Video
	Sidecar
	DeleteJunk
	Image
	Sample
	ScreensContent
	ForeignSubtitle
	ReleaseFolderJunk
)

func (r Role) String() string {
	switch r {
	case Ignored:
		return "ignored"
	case Video:
		return "video"
	case Sidecar:
		return "sidecar"
	case DeleteJunk:
		return "junk"
	case Image:
		return "image"
	case Sample:
		return "sample"
	case ScreensContent:
		return "screens"
	case ForeignSubtitle:
		return "foreign_subtitle"
	case ReleaseFolderJunk:
		return "release_folder_junk"
	default:
		return "unknown"
	}
}

// Deletes reports whether files with this role are removed by a run.
func (r Role) Deletes() bool {
	switch r {
	case DeleteJunk, Image, ScreensContent, ForeignSubtitle, ReleaseFolderJunk:
		return true
	}
	return false
}

// Reason is the label used when a file with this role is reported as
// unexpected. Roles that are routine (video, sidecar, junk) return "".
func (r Role) Reason() string {
	switch r {
	case ScreensContent:
		return "screens-folder content"
	case Sample:
		return "sample"
	case Image:
		return "image"
	case ForeignSubtitle:
		return "non-English subtitle"
	case ReleaseFolderJunk:
		return "release folder junk"
	case Unknown:
		return "unknown"
	}
	return ""
}

// Entry is a file seen during a walk.
type Entry struct {
	Path string
	Ext  string
}

// NewEntry derives an Entry from an absolute path.
func NewEntry(path string) Entry {
	return Entry{Path: path, Ext: strings.ToLower(filepath.Ext(path))}
}

// Name is the file's base name.
func (e Entry) Name() string { return filepath.Base(e.Path) }

// Decision is the classifier's verdict for one entry. Identity is only
// populated for Video and Sidecar roles.
type Decision struct {
	Role     Role
	Identity naming.Identity
}

// YearLookup resolves a cleaned movie title to a canonical title and year.
// Implementations rate limit and cache on their own.
type YearLookup interface {
	LookupYear(ctx context.Context, title string) (string, string, bool)
}

var (
	sampleMarkers  = map[string]struct{}{"sample": {}, "samples": {}, "proof": {}, "trailer": {}}
	screensFolders = map[string]struct{}{"screens": {}, "screenshots": {}, "screencaps": {}}
	identityToken  = regexp.MustCompile(`^(s\d{1,2}e\d{1,3}|\d{1,2}x\d{2,3}|(19|20)\d{2})$`)
	subsFolders    = map[string]struct{}{"subs": {}, "subtitles": {}, "sub": {}}
)

// Classifier routes files to roles for one media grammar.
type Classifier struct {
	grammar naming.MediaGrammar
	root    string
	engine  func(name string) bool
	lookup  YearLookup

	// PurgeForeignSubtitles applies the English filter to every subtitle, not
	// only those inside release folders.
	PurgeForeignSubtitles bool
}

// New builds a classifier for root. isEngineFile reports whether a base name
// belongs to the engine itself (journals, lock file) and must be ignored.
func New(grammar naming.MediaGrammar, root string, isEngineFile func(name string) bool) *Classifier {
	if isEngineFile == nil {
		isEngineFile = func(string) bool { return false }
	}
	return &Classifier{grammar: grammar, root: filepath.Clean(root), engine: isEngineFile}
}

// WithLookup enables year lookup for movie videos that parse without a year.
func (c *Classifier) WithLookup(lookup YearLookup) *Classifier {
	c.lookup = lookup
	return c
}

// Classify decides the role of entry. It never touches the filesystem.
func (c *Classifier) Classify(ctx context.Context, entry Entry) Decision {
	name := entry.Name()
	parent := filepath.Dir(entry.Path)
	parentName := filepath.Base(parent)

	if c.engine(name) {
		return Decision{Role: Ignored}
	}
	if c.underScreens(parent) {
		return Decision{Role: ScreensContent}
	}
	if isSample(name, parentName) {
		return Decision{Role: Sample}
	}
	if c.grammar.DeleteExts().Has(entry.Ext) {
		return Decision{Role: DeleteJunk}
	}
	if naming.ImageExts.Has(entry.Ext) {
		return Decision{Role: Image}
	}

	isVideo := c.grammar.VideoExts().Has(entry.Ext)
	isSidecar := !isVideo && c.grammar.SidecarExts().Has(entry.Ext)
	if isVideo || isSidecar {
		if isSidecar && c.filtersLanguage(parent) && !isEnglishSubtitle(name, entry.Ext) {
			return Decision{Role: ForeignSubtitle}
		}
		id := c.resolveIdentity(ctx, entry, isVideo)
		if isVideo {
			return Decision{Role: Video, Identity: id}
		}
		return Decision{Role: Sidecar, Identity: id}
	}

	if parent != c.root && c.grammar.Parse(parentName).Parsed() {
		return Decision{Role: ReleaseFolderJunk}
	}
	return Decision{Role: Unknown}
}

// InReleaseContext reports whether dir is a release folder, or a subs folder
// directly inside one.
func (c *Classifier) InReleaseContext(dir string) bool {
	name := filepath.Base(dir)
	if c.grammar.IsReleaseFolder(name) {
		return true
	}
	if isSubsFolder(name) {
		return c.grammar.IsReleaseFolder(filepath.Base(filepath.Dir(dir)))
	}
	return false
}

func (c *Classifier) filtersLanguage(parent string) bool {
	return c.PurgeForeignSubtitles || c.InReleaseContext(parent)
}

func (c *Classifier) resolveIdentity(ctx context.Context, entry Entry, isVideo bool) naming.Identity {
	name := entry.Name()
	if id := c.grammar.Parse(name); id.Parsed() {
		return id
	}
	parent := filepath.Dir(entry.Path)
	if parent != c.root {
		if id := c.grammar.Parse(filepath.Base(parent)); id.Parsed() {
			return id
		}
		grand := filepath.Dir(parent)
		if isSubsFolder(filepath.Base(parent)) && grand != c.root && withinRoot(c.root, grand) {
			if id := c.grammar.Parse(filepath.Base(grand)); id.Parsed() {
				return id
			}
		}
	}
	if isVideo && c.lookup != nil && c.grammar.Kind() == naming.MediaMovie {
		query := naming.CleanMovieTitle(strings.TrimSuffix(naming.StripNoisePrefix(name), filepath.Ext(name)))
		if query != "" {
			if title, year, ok := c.lookup.LookupYear(ctx, query); ok {
				return naming.MovieFromLookup(title, year)
			}
		}
	}
	return naming.Unparsed
}

// underScreens reports whether any directory between root and dir is a
// screenshots folder.
func (c *Classifier) underScreens(dir string) bool {
	for dir != c.root && withinRoot(c.root, dir) {
		if IsScreensFolder(filepath.Base(dir)) {
			return true
		}
		dir = filepath.Dir(dir)
	}
	return false
}

// IsScreensFolder reports whether a directory name, ignoring case and
// separators, is "screens", "screenshots" or "screencaps". A show titled
// "Silver Screens" is not one.
func IsScreensFolder(name string) bool {
	_, ok := screensFolders[strings.Join(tokens(name), "")]
	return ok
}

// tokens splits a lowercased name on anything that is not a letter or digit.
func tokens(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// isSample matches sample markers as whole tokens placed after the last
// episode or year token, so "Trailer.Park.Boys.S01E01" stays a video while
// "Show.S01E01.720p-sample" does not.
func isSample(name, parentName string) bool {
	words := tokens(strings.TrimSuffix(name, filepath.Ext(name)))
	start := 0
	for i, w := range words {
		if identityToken.MatchString(w) {
			start = i + 1
		}
	}
	for _, w := range words[start:] {
		if _, ok := sampleMarkers[w]; ok {
			return true
		}
	}
	switch strings.ToLower(parentName) {
	case "sample", "samples":
		return true
	}
	return false
}

func isSubsFolder(name string) bool {
	_, ok := subsFolders[strings.ToLower(name)]
	return ok
}

func isEnglishSubtitle(name, ext string) bool {
	return naming.SubtitleExts.Has(ext) && language.LooksEnglish(name)
}

func withinRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
