package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// leadingArticle matches an english article followed by whitespace.
var leadingArticle = regexp.MustCompile(`^(?:a|an|the)\s+(.+)`)

// Fold returns the lookup key for s: NFC composed and case folded, so
// "Café" typed either precomposed or decomposed lands on the same key.
// Folding has no context rules, so a folded prefix is always a prefix of
// the folded word: "ΟΔΟΣ" and "ΟΔΟΣΑ" both fold Σ to σ. Invalid UTF-8 is
// replaced with U+FFFD first.
// A Caser keeps state, so one is made per call.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, string(utf8.RuneError))
	return cases.Fold().String(norm.NFC.String(s))
}

// StripArticle drops a leading "a", "an" or "the" from an already folded
// key. It returns false when there is nothing to strip.
func StripArticle(key string) (string, bool) {
	m := leadingArticle.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	return m[1], true
}
