package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var dashReplacer = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus sign
)

// NormalizeSeparators composes the name to NFC, maps unicode dashes to an
// ASCII hyphen, maps every unicode space (including NBSP) to an ASCII space,
// and collapses whitespace runs.
func NormalizeSeparators(name string) string {
	name = norm.NFC.String(name)
	name = dashReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, name)
	return CollapseSpaces(name)
}

// CollapseSpaces trims the value and folds internal whitespace runs to a single space.
func CollapseSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
