package naming

import (
	"regexp"
	"strconv"
	"strings"

	"cleanmedia/internal/textutil"
)

// ParseRule pairs a compiled regex with an extraction function. Rules are
// evaluated in order by parseWith; first match wins. Extract may still return
// Unparsed (for example when the captured name cleans down to nothing).
type ParseRule struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(m []string) Identity
}

// noisePrefixes are indexer/release-site tags stripped from the front of a
// name before any grammar runs. Order matters.
var noisePrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^www\.UIndex\.org\s*-\s*`),
	regexp.MustCompile(`(?i)^www\.[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.[a-z]{2,}\s+-\s+`),
	regexp.MustCompile(`(?i)^\[(?:tgx|rartv|rarbg|eztv|yts|yify)\][\s._\-]*`),
	regexp.MustCompile(`(?i)^(?:tgx|rartv|rarbg|eztv\.re|eztv|yts|yify)[\s._\-]+`),
	regexp.MustCompile(`(?i)^www\.`),
}

// StripNoisePrefix normalizes separators and removes known indexer prefixes.
func StripNoisePrefix(name string) string {
	s := textutil.NormalizeSeparators(name)
	for _, re := range noisePrefixes {
		s = re.ReplaceAllString(s, "")
	}
	return strings.TrimLeft(s, " ")
}

// EpisodeRules are tried in order for TV names.
var EpisodeRules = []ParseRule{
	{
		Name:    "sxxeyy",
		Pattern: regexp.MustCompile(`(?i)^(.*?)[.\s\-_]*S(\d{1,2})[.\s\-_]*E(\d{1,2})`),
		Extract: extractEpisode,
	},
	{
		Name:    "nxm",
		Pattern: regexp.MustCompile(`(?i)^(.*?)[.\s\-_]*\b(\d{1,2})x(\d{1,2})\b`),
		Extract: extractEpisode,
	},
	{
		Name:    "season-episode",
		Pattern: regexp.MustCompile(`(?i)^(.*?)[.\s\-_]*Season[.\s\-_]*(\d{1,2})[.\s\-_]*Episode[.\s\-_]*(\d{1,2})`),
		Extract: extractEpisode,
	},
}

// MovieRules are tried in order for movie names. The parenthesized form wins
// over a bare year so "Title (1999) 2160p" is never split on a later number.
var MovieRules = []ParseRule{
	{
		Name:    "paren-year",
		Pattern: regexp.MustCompile(`^(.+?)\s*\(((?:19|20)\d{2})\)`),
		Extract: extractMovie,
	},
	{
		Name:    "bare-year",
		Pattern: regexp.MustCompile(`^(.+?)[.\s_(\-]((?:19|20)\d{2})(?:[).\s_\-]|$)`),
		Extract: extractMovie,
	},
}

func extractEpisode(m []string) Identity {
	show := cleanShow(m[1])
	if show == "" {
		return Unparsed
	}
	season, _ := strconv.Atoi(m[2])
	episode, _ := strconv.Atoi(m[3])
	return NewEpisode(show, season, episode)
}

func extractMovie(m []string) Identity {
	title := CleanMovieTitle(m[1])
	if title == "" {
		return Unparsed
	}
	return NewMovie(title, m[2])
}

// ParseEpisode parses a filename or folder name as a TV episode.
func ParseEpisode(name string) Identity {
	return parseWith(EpisodeRules, name)
}

// ParseMovie parses a filename or folder name as a movie.
func ParseMovie(name string) Identity {
	return parseWith(MovieRules, name)
}

func parseWith(rules []ParseRule, name string) Identity {
	base := stripKnownExt(StripNoisePrefix(name))
	if base == "" {
		return Unparsed
	}
	for _, rule := range rules {
		m := rule.Pattern.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		if id := rule.Extract(m); id.Parsed() {
			return id
		}
	}
	return Unparsed
}
