// Package textutil holds small string helpers shared by the renderer and
// the feedback builder.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five HTML-significant characters.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// EscapeRegExp quotes every regex metacharacter in s.
func EscapeRegExp(s string) string {
	return regexp.QuoteMeta(s)
}

// ReplaceFirst replaces only the first occurrence of search.
func ReplaceFirst(s, search, repl string) string {
	return strings.Replace(s, search, repl, 1)
}

// IsWordRune reports whether r matches the \w class.
func IsWordRune(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

// HasWordChar reports whether s contains at least one \w character.
func HasWordChar(s string) bool {
	for _, r := range s {
		if IsWordRune(r) {
			return true
		}
	}
	return false
}

// IndexFold returns the byte offset of the first case-insensitive match of
// sub in s at or after from, or -1.
func IndexFold(s, sub string, from int) int {
	if sub == "" || from < 0 || from > len(s) {
		return -1
	}
	ls := strings.ToLower(s)
	lsub := strings.ToLower(sub)
	// ToLower may change byte lengths for some runes; fall back to a rune walk.
	if len(ls) != len(s) || len(lsub) != len(sub) {
		for i := from; i+len(sub) <= len(s); i++ {
			if strings.EqualFold(s[i:i+len(sub)], sub) {
				return i
			}
		}
		return -1
	}
	idx := strings.Index(ls[from:], lsub)
	if idx < 0 {
		return -1
	}
	return from + idx
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ToID turns a display term into a key-term id: lowercase, whitespace
// runs collapsed to underscores.
func ToID(term string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(term)), "_")
}

// WordBoundaryAt reports whether the match s[start:end] sits on \b
// boundaries at both ends.
func WordBoundaryAt(s string, start, end int) bool {
	return isBoundary(s, start) && isBoundary(s, end)
}

func isBoundary(s string, i int) bool {
	before := i > 0 && IsWordRune(rune(s[i-1]))
	after := i < len(s) && IsWordRune(rune(s[i]))
	return before != after
}
