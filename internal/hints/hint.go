package hints

import (
	"regexp"
	"strconv"
	"strings"

	"reelquery/internal/textutil"
)

// Kind discriminates the hint variants.
type Kind int

const (
	KindNone Kind = iota
	KindExternalID
	KindCatalogID
	KindYear
	KindOrdinal
	KindDirector
)

func (k Kind) String() string {
	switch k {
	case KindExternalID:
		return "external_id"
	case KindCatalogID:
		return "catalog_id"
	case KindYear:
		return "year"
	case KindOrdinal:
		return "ordinal"
	case KindDirector:
		return "director"
	default:
		return "none"
	}
}

// Hint is the one disambiguating fact extracted from a question. Value holds
// the identifier or director name; Number holds the year or the 1-based ordinal.
type Hint struct {
	Kind   Kind
	Value  string
	Number int
	// Span is the matched surface text, used to strip the hint from the title query.
	Span string
}

// ExternalID builds an external reference hint.
func ExternalID(id string) Hint {
	id = strings.ToLower(strings.TrimSpace(id))
	return Hint{Kind: KindExternalID, Value: id, Span: id}
}

// CatalogID builds a catalog uid hint.
func CatalogID(uid string) Hint {
	uid = strings.ToLower(strings.TrimSpace(uid))
	return Hint{Kind: KindCatalogID, Value: uid, Span: uid}
}

// Year builds a release year hint.
func Year(year int) Hint {
	s := strconv.Itoa(year)
	return Hint{Kind: KindYear, Value: s, Number: year, Span: s}
}

// Ordinal builds a 1-based list position hint.
func Ordinal(index int) Hint {
	return Hint{Kind: KindOrdinal, Number: index}
}

// Director builds a director name hint.
func Director(name string) Hint {
	name = strings.TrimSpace(name)
	return Hint{Kind: KindDirector, Value: name, Span: name}
}

const (
	minHintYear = 1900
	maxHintYear = 2039
)

var (
	externalIDPattern = regexp.MustCompile(`(?i)\btt\d{6,9}\b`)
	catalogIDPattern  = regexp.MustCompile(`\b[0-9a-fA-F]{16,}\b`)
	yearPattern       = regexp.MustCompile(`\b(\d{4})\b`)
	directorPattern   = regexp.MustCompile(
		`(?:^|\s)((?i:directed\s+by|dirigid[ao]\s+por|by|of))\s+` +
			`(\p{Lu}[\p{L}'.\-]*(?:\s+(?:(?:del|de|la|van|von|der|da)\s+)?\p{Lu}[\p{L}'.\-]*)*)` +
			`\s*[?!.]*\s*$`)
)

// ExtractHint returns the highest priority hint found in text.
func ExtractHint(text string) (Hint, bool) {
	text = Normalize(text)
	if text == "" {
		return Hint{}, false
	}
	if match := externalIDPattern.FindString(text); match != "" {
		return ExternalID(match), true
	}
	if match := catalogIDPattern.FindString(text); match != "" {
		return CatalogID(match), true
	}
	for _, groups := range yearPattern.FindAllStringSubmatch(text, -1) {
		year, err := strconv.Atoi(groups[1])
		if err == nil && year >= minHintYear && year <= maxHintYear {
			return Year(year), true
		}
	}
	if index, ok := ordinalLexicon[textutil.CleanTitle(text)]; ok {
		return Ordinal(index), true
	}
	if groups := directorPattern.FindStringSubmatch(text); len(groups) == 3 {
		hint := Director(groups[2])
		hint.Span = groups[1] + " " + groups[2]
		return hint, true
	}
	return Hint{}, false
}

// StripHint removes the hint's surface text from text so the residue can be
// searched as a title.
func StripHint(text string, hint Hint) string {
	text = Normalize(text)
	if hint.Kind == KindNone || hint.Kind == KindOrdinal || hint.Span == "" {
		return text
	}
	pattern := regexp.MustCompile(`(?i)(?:^|\s)` + regexp.QuoteMeta(hint.Span) + `(?:\s|$|[?!.,])`)
	return Normalize(pattern.ReplaceAllString(text, " "))
}
