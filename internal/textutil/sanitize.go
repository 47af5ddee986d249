package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName makes name safe as a single path segment on the
// filesystems media libraries usually live on (ext4, SMB, NTFS). Path
// separators, colons and asterisks become dashes; ? " < > | and control
// characters are dropped; surrounding spaces and trailing dots are trimmed.
func SanitizeFileName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '-'
		case '?', '"', '<', '>', '|':
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimRight(strings.TrimSpace(mapped), ". ")
}
