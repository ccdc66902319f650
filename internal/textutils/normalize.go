// Package textutils provides the text normalization used to compare spoken
// transcripts with category names.
package textutils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// currencyPattern matches currency symbols and spoken currency names.
var currencyPattern = regexp.MustCompile(`[$€£]|dollars?|euros?|pounds?`)

// isCombiningMark reports whether r is in the Combining Diacritical Marks block.
func isCombiningMark(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

// Normalize lowercases text, strips diacritics, currency markers and
// punctuation, and collapses whitespace. A '.' between two digits is kept so
// decimal amounts like "12.50" survive.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := strings.ToLower(text)

	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isCombiningMark)))
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	// Removal can join fragments into a new currency word ("dol$lar").
	for {
		next := currencyPattern.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}

	rs := []rune(s)
	out := make([]rune, len(rs))
	for i, r := range rs {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '&', r == '-':
			out[i] = r
		case unicode.IsSpace(r):
			out[i] = ' '
		case r == '.' && i > 0 && i < len(rs)-1 && isDigit(rs[i-1]) && isDigit(rs[i+1]):
			out[i] = r
		default:
			out[i] = ' '
		}
	}

	return strings.Join(strings.Fields(string(out)), " ")
}

// Tokenize normalizes text and splits it on runs of whitespace or commas.
func Tokenize(text string) []string {
	return strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// Stem drops a trailing "s" from words longer than three characters.
// It is a naive singularizer and nothing more.
func Stem(word string) string {
	if utf8.RuneCountInString(word) > 3 && strings.HasSuffix(word, "s") {
		return strings.TrimSuffix(word, "s")
	}
	return word
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
