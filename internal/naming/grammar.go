package naming

import (
	"fmt"
	"strings"
)

// MediaKind selects a grammar.
type MediaKind string

const (
	MediaTV    MediaKind = "tv"
	MediaMovie MediaKind = "movie"
)

// MediaGrammar bundles everything that differs between TV and movie
// libraries. The reorganization engine is written once against it.
type MediaGrammar interface {
	Kind() MediaKind
	// Service names the journal and log component ("clean-tv").
	Service() string
	Parse(name string) Identity
	VideoDest(root string, id Identity, ext string) string
	SidecarDest(root string, id Identity, name string) string
	IsCleanFolder(name string) bool
	IsReleaseFolder(name string) bool
	VideoExts() ExtSet
	SidecarExts() ExtSet
	DeleteExts() ExtSet
}

// ForKind returns the grammar for a kind name ("tv", "movie"; case-insensitive).
func ForKind(kind string) (MediaGrammar, error) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(kind))) {
	case MediaTV, "":
		return TV{}, nil
	case MediaMovie, "movies":
		return Movie{}, nil
	default:
		return nil, fmt.Errorf("unknown media kind %q (want tv or movie)", kind)
	}
}

// TV is the grammar for episodic libraries.
type TV struct{}

func (TV) Kind() MediaKind            { return MediaTV }
func (TV) Service() string            { return "clean-tv" }
func (TV) Parse(name string) Identity { return ParseEpisode(name) }
func (TV) VideoExts() ExtSet          { return VideoExts }
func (TV) SidecarExts() ExtSet        { return tvSidecarExts }
func (TV) DeleteExts() ExtSet         { return JunkExts }

func (TV) VideoDest(root string, id Identity, ext string) string {
	return EpisodeVideoPath(root, id, ext)
}

func (TV) SidecarDest(root string, id Identity, name string) string {
	return EpisodeSidecarPath(root, id, name)
}

func (TV) IsCleanFolder(name string) bool { return IsSeasonFolder(name) }

func (TV) IsReleaseFolder(name string) bool { return matchesAny(name, releaseMarkers) }

// Movie is the grammar for flat movie libraries.
type Movie struct{}

func (Movie) Kind() MediaKind            { return MediaMovie }
func (Movie) Service() string            { return "clean-movie" }
func (Movie) Parse(name string) Identity { return ParseMovie(name) }
func (Movie) VideoExts() ExtSet          { return VideoExts }
func (Movie) SidecarExts() ExtSet        { return SubtitleExts }
func (Movie) DeleteExts() ExtSet         { return movieDeleteExts }

func (Movie) VideoDest(root string, id Identity, ext string) string {
	return MovieVideoPath(root, id, ext)
}

func (Movie) SidecarDest(root string, id Identity, name string) string {
	return MovieSidecarPath(root, id, name)
}

func (Movie) IsCleanFolder(name string) bool { return IsMovieFolder(name) }

func (Movie) IsReleaseFolder(name string) bool {
	return matchesAny(name, releaseMarkers, movieReleaseMarkers)
}

// MovieFromLookup normalizes a title returned by an external lookup through
// the same cleaner the parser uses, so a later run re-parses the placed file
// to the identical identity.
func MovieFromLookup(title, year string) Identity {
	cleaned := CleanMovieTitle(title)
	if cleaned == "" || len(year) != 4 {
		return Unparsed
	}
	return NewMovie(cleaned, year)
}
