package hints

import (
	"regexp"
	"strings"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	quoteReplacer     = strings.NewReplacer(
		"‘", "'", "’", "'", "´", "'", "`", "'",
		"“", `"`, "”", `"`, "«", `"`, "»", `"`,
	)
)

// Normalize collapses whitespace, maps typographic quotes to ASCII and trims.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	cleaned := quoteReplacer.Replace(text)
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
