package language

import (
	"path/filepath"
	"strings"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 terminology (3-letter)
	alt3    string   // ISO 639-2 bibliographic (e.g. "fre" vs "fra"), preferred in filenames
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish", "espanol"}},
	{"fr", "fra", "fre", "French", []string{"french", "francais"}},
	{"de", "deu", "ger", "German", []string{"german", "deutsch"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Tag returns the three-letter tag written into sidecar filenames for a
// recognized language code or word ("en", "english", "ENG" all yield "eng").
// The bibliographic code is preferred where one exists ("fre", "ger").
func Tag(token string) (string, bool) {
	e := lookup(token)
	if e == nil {
		return "", false
	}
	if e.alt3 != "" {
		return e.alt3, true
	}
	return e.code3, true
}

// fileNameCode2 lists the two-letter codes trusted as language tags inside
// file names. Other two-letter codes ("it", "no") read as ordinary words.
var fileNameCode2 = map[string]struct{}{"en": {}, "es": {}, "fr": {}, "de": {}}

// FileNameTag is Tag restricted to tokens found in sidecar file names:
// three-letter codes and full words for every language, two-letter codes only
// for fileNameCode2.
func FileNameTag(token string) (string, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if len(token) == 2 {
		if _, ok := fileNameCode2[token]; !ok {
			return "", false
		}
	}
	return Tag(token)
}

// IsEnglish reports whether the code or word names English.
func IsEnglish(token string) bool {
	e := lookup(token)
	return e != nil && e.code2 == "en"
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

var englishMarkers = []string{
	".en.", ".eng.", ".english.",
	"_en.", "_eng.", "-en.", "-eng.",
	"(en)", "[en]", "(eng)", "[eng]",
	" english",
}

// LooksEnglish applies the filename heuristic used to keep subtitles found in
// release folders: a stem of english/eng/en, a stem containing "eng", or one
// of the common language-tag markers. Callers check the subtitle extension.
func LooksEnglish(name string) bool {
	lower := strings.ToLower(name)
	stem := strings.TrimSuffix(lower, filepath.Ext(lower))

	switch stem {
	case "english", "eng", "en":
		return true
	}
	if strings.HasPrefix(stem, "en.") || strings.Contains(stem, "eng") {
		return true
	}
	for _, m := range englishMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
