package naming

import "regexp"

var (
	reSeasonFolder = regexp.MustCompile(`^Season \d{2}$`)
	reMovieFolder  = regexp.MustCompile(`^.+\s+\(\d{4}\)$`)

	// Release/wrapper markers shared by both kinds. The release-group suffix is
	// matched case-sensitively so "Spider-Man" is not mistaken for "-GROUP".
	releaseMarkers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d{3,4}p`),
		regexp.MustCompile(`(?i)(?:WEB-?DL|WEBRip|BluRay|BDRip|HDRip)`),
		regexp.MustCompile(`(?i)(?:x264|x265|h264|h265|HEVC)`),
		regexp.MustCompile(`\[.*\]$`),
		regexp.MustCompile(`-[A-Z0-9]{2,}$`),
	}
	movieReleaseMarkers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)DVDRip`),
		regexp.MustCompile(`(?i)(?:YIFY|YTS|RARBG|TGx)`),
	}
)

// IsSeasonFolder reports whether name is exactly "Season NN".
func IsSeasonFolder(name string) bool {
	return reSeasonFolder.MatchString(name)
}

// IsMovieFolder reports whether name has the canonical "Title (YYYY)" shape.
func IsMovieFolder(name string) bool {
	return reMovieFolder.MatchString(name)
}

func matchesAny(name string, patterns ...[]*regexp.Regexp) bool {
	for _, set := range patterns {
		for _, re := range set {
			if re.MatchString(name) {
				return true
			}
		}
	}
	return false
}
