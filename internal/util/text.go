package util

import (
	"regexp"
	"strings"
	"unicode"
)

var reSpaces = regexp.MustCompile(`\s+`)

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// ContainsToken reports whether token occurs in input as a whole word,
// ignoring case. Letters and digits on either side make it part of a
// longer word.
func ContainsToken(input, token string) bool {
	if token == "" {
		return false
	}
	haystack := []rune(strings.ToLower(input))
	needle := []rune(strings.ToLower(token))
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if !equalRunes(haystack[i:i+len(needle)], needle) {
			continue
		}
		if i > 0 && isWordRune(haystack[i-1]) {
			continue
		}
		if end := i + len(needle); end < len(haystack) && isWordRune(haystack[end]) {
			continue
		}
		return true
	}
	return false
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
