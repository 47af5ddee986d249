package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cleanmedia/internal/textutil"
)

var (
	reShowSeparators = regexp.MustCompile(`[._\-]+`)
	reMovieSeparator = regexp.MustCompile(`[._]+`)
	reTrailingYear   = regexp.MustCompile(`\s*\(\d{4}\)\s*$`)
	reTrailingGroup  = regexp.MustCompile(`\s*-\s*[A-Z0-9]{2,}$`)
	reTrailingTag    = regexp.MustCompile(`\s*\[[^\]]+\]$`)

	// Source, resolution, codec and edition markers. Matched case-insensitively.
	reQualityMarkers = regexp.MustCompile(`(?i)\b(?:` +
		`2160p|1080p|720p|480p|4K|UHD|` +
		`BluRay|BDRip|BRRip|WEB-?DL|WEBRip|HDRip|DVDRip|DVDSCR|HDTV|` +
		`x264|x265|H[. ]?264|H[. ]?265|HEVC|` +
		`AAC|AC3|DTS|DD5[. ]?1|FLAC|Atmos|` +
		`REMUX|PROPER|REPACK|EXTENDED|UNRATED|DIRECTORS[. ]?CUT|THEATRICAL|IMAX|` +
		`10bit|HDR10|HDR|DoVi` +
		`)\b`)

	// Short markers that collide with ordinary words ("Cam", "Ts"). Only the
	// upper-case spelling counts.
	reUpperMarkers = regexp.MustCompile(`\b(?:CAM|TS|TC|DV|AVC)\b`)
)

// cleanShow turns a captured show name into its display form.
func cleanShow(raw string) string {
	show := textutil.SanitizeFileName(raw)
	show = reShowSeparators.ReplaceAllString(show, " ")
	show = textutil.CollapseSpaces(show)
	show = strings.TrimSpace(reTrailingYear.ReplaceAllString(show, ""))
	return titleCase(show)
}

// CleanMovieTitle turns a captured movie title into its display form:
// separators become spaces, quality markers and a trailing release group are
// removed, and words are title-cased with short acronyms preserved.
func CleanMovieTitle(raw string) string {
	title := textutil.SanitizeFileName(raw)
	title = reMovieSeparator.ReplaceAllString(title, " ")
	title = reQualityMarkers.ReplaceAllString(title, " ")
	title = reUpperMarkers.ReplaceAllString(title, " ")
	title = textutil.CollapseSpaces(title)
	title = reTrailingGroup.ReplaceAllString(title, "")
	title = reTrailingTag.ReplaceAllString(title, "")
	title = strings.Trim(textutil.CollapseSpaces(title), " -")
	return titleCase(title)
}

// titleCase capitalizes each whitespace-separated word, leaving all-caps
// tokens of up to four characters (FBI, US, II) untouched.
func titleCase(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	caser := cases.Title(language.Und)
	for i, word := range words {
		if isAcronym(word) {
			continue
		}
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}

func isAcronym(word string) bool {
	if len([]rune(word)) > 4 {
		return false
	}
	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
