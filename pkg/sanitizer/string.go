package sanitizer

import (
	"strings"
	"unicode"
)

// Trim removes leading and trailing whitespace from a string.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// RemoveChars removes every occurrence of any rune in chars.
func RemoveChars(s string, chars string) string {
	if chars == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}

// RemoveAngleBrackets drops '<' and '>' so the value cannot open or close markup.
func RemoveAngleBrackets(s string) string {
	return RemoveChars(s, "<>")
}

// PlainText removes angle brackets and surrounding whitespace.
// It is idempotent: PlainText(PlainText(s)) == PlainText(s).
var PlainText = Compose(RemoveAngleBrackets, Trim)

// SingleLine collapses line breaks and tabs into single spaces. Useful for
// values that end up in mail headers.
func SingleLine(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' || r == '\t' {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// RemoveControlChars strips non-printable control characters, keeping
// newlines and tabs.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// MaxLength truncates s to at most maxLen runes.
func MaxLength(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
