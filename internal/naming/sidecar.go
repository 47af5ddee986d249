package naming

import (
	"path/filepath"
	"strings"

	"cleanmedia/internal/language"
)

// modifiers are sidecar flags carried into the canonical name, in output order.
var modifiers = []string{"forced", "sdh", "cc", "hi"}

// SidecarSuffix re-derives the language/modifier suffix of a sidecar name
// ("Movie.1080p.ENG.Forced.srt" yields "eng.forced"). Trailing tokens of the
// stem are scanned right to left until the first token that is neither a
// language nor a modifier. English is omitted when keepEnglish is false.
func SidecarSuffix(name string, keepEnglish bool) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	tokens := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '.' || r == '_' || r == ' ' || r == '-'
	})

	var lang string
	found := make(map[string]bool, len(modifiers))
	for i := len(tokens) - 1; i >= 0; i-- {
		token := strings.ToLower(strings.Trim(tokens[i], "[]()"))
		if isModifier(token) {
			found[token] = true
			continue
		}
		if tag, ok := language.FileNameTag(token); ok && lang == "" {
			lang = tag
			continue
		}
		break
	}

	parts := make([]string, 0, 1+len(found))
	if lang != "" && (keepEnglish || !language.IsEnglish(lang)) {
		parts = append(parts, lang)
	}
	for _, mod := range modifiers {
		if found[mod] {
			parts = append(parts, mod)
		}
	}
	return strings.Join(parts, ".")
}

func isModifier(token string) bool {
	for _, mod := range modifiers {
		if token == mod {
			return true
		}
	}
	return false
}
