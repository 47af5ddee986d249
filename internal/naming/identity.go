package naming

import "fmt"

// Kind tags the variant held by an Identity.
type Kind int

const (
	KindUnparsed Kind = iota
	KindEpisode
	KindMovie
)

func (k Kind) String() string {
	switch k {
	case KindEpisode:
		return "episode"
	case KindMovie:
		return "movie"
	default:
		return "unparsed"
	}
}

// Identity is the structured result of parsing a name. Only the fields of the
// variant named by Kind are populated; the zero value is Unparsed.
type Identity struct {
	Kind Kind

	// Episode fields. Season and Episode are zero-padded to two digits.
	Show    string
	Season  string
	Episode string

	// Movie fields. Year is four digits.
	Title string
	Year  string
}

// Unparsed is returned whenever no grammar rule matched.
var Unparsed = Identity{}

// NewEpisode builds an episode identity, zero-padding season and episode.
func NewEpisode(show string, season, episode int) Identity {
	return Identity{
		Kind:    KindEpisode,
		Show:    show,
		Season:  fmt.Sprintf("%02d", season),
		Episode: fmt.Sprintf("%02d", episode),
	}
}

// NewMovie builds a movie identity.
func NewMovie(title, year string) Identity {
	return Identity{Kind: KindMovie, Title: title, Year: year}
}

// Parsed reports whether the identity holds an episode or a movie.
func (id Identity) Parsed() bool {
	return id.Kind != KindUnparsed
}

func (id Identity) String() string {
	switch id.Kind {
	case KindEpisode:
		return fmt.Sprintf("%s S%sE%s", id.Show, id.Season, id.Episode)
	case KindMovie:
		return fmt.Sprintf("%s (%s)", id.Title, id.Year)
	default:
		return "unparsed"
	}
}
