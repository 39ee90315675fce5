package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsValidQuery checks if a prefix should be looked up at all.
// Digits, punctuation and spaces are legal since titles and street
// addresses carry them ("48 Hrs.", "2417 Franklin Street"). Invalid UTF-8
// and control characters are not.
func IsValidQuery(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsRepetitive checks if a string is one character repeated 3+ times,
// e.g. "aaa" or "www".
func IsRepetitive(s string) bool {
	rs := []rune(s)
	if len(rs) <= 2 {
		return false
	}
	for _, r := range rs[1:] {
		if r != rs[0] {
			return false
		}
	}
	return true
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
