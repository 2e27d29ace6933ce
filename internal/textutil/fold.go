package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// wordSplitPattern matches non-alphanumeric character sequences.
var wordSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Fold lowercases text and strips combining marks so "Amélie" and "amelie"
// compare equal. Whitespace is preserved.
func Fold(text string) string {
	if text == "" {
		return ""
	}
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

// Words folds text and splits it into alphanumeric words.
func Words(text string) []string {
	raw := wordSplitPattern.Split(Fold(text), -1)
	words := make([]string, 0, len(raw))
	for _, word := range raw {
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	return words
}

// CleanTitle returns the folded words of text joined by single spaces. It is
// the form stored in titles.clean_title and used as the search term.
func CleanTitle(text string) string {
	return strings.Join(Words(text), " ")
}

// ContainsFolded reports whether needle occurs in haystack ignoring case and accents.
func ContainsFolded(haystack, needle string) bool {
	needle = strings.TrimSpace(Fold(needle))
	if needle == "" {
		return false
	}
	return strings.Contains(Fold(haystack), needle)
}

// EqualFold compares two identifiers ignoring case and surrounding whitespace.
func EqualFold(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

// DisplayTitle title-cases a folded or lowercased name for presentation.
func DisplayTitle(text string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(text))
}
