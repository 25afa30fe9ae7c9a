// Package utils holds small shared helpers for string matching, number
// formatting and TOML handling.
package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticFolder decomposes to NFD, drops combining marks, and recomposes.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics strips accents and other combining marks from s, so that
// "Éloïse" and "Eloise" compare equal. Falls back to the input unchanged if
// the transform fails on malformed UTF-8.
func FoldDiacritics(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return folded
}

// EqualFolded reports equality after lowercasing and diacritic folding on
// both sides.
func EqualFolded(a, b string) bool {
	return strings.EqualFold(FoldDiacritics(a), FoldDiacritics(b))
}

// ContainsIgnoreCase checks if s contains substr case-insensitively.
func ContainsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// HasPrefixIgnoreCase checks if s has prefix case-insensitively.
func HasPrefixIgnoreCase(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

// FormatWithCommas renders n with thousands separators for CLI output.
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	s := make([]byte, 0, 16)
	digits := 0
	for {
		if digits > 0 && digits%3 == 0 {
			s = append(s, ',')
		}
		s = append(s, byte('0'+n%10))
		digits++
		n /= 10
		if n == 0 {
			break
		}
	}
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return string(s)
}
