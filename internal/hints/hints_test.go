package hints

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  how   popular\tis  “Dune”  ": `how popular is "Dune"`,
		"Amélie’s fate":                 "Amélie's fate",
		"«Roma»":                        `"Roma"`,
		"":                              "",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractHint(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   Kind
		value  string
		number int
	}{
		{"external id", "tt1234567", KindExternalID, "tt1234567", 0},
		{"external id upper", "popularity of TT0133093 please", KindExternalID, "tt0133093", 0},
		{"external id beats year", "tt1234567 from 1999", KindExternalID, "tt1234567", 0},
		{"catalog id", "uid 9f86d081884c7d65", KindCatalogID, "9f86d081884c7d65", 0},
		{"year", "Dune 2021 popularity", KindYear, "2021", 2021},
		{"first year in range wins", "Blade Runner 1800 1982 2049", KindYear, "1982", 1982},
		{"year out of range", "Dune 2049", KindNone, "", 0},
		{"ordinal english", "The second one", KindOrdinal, "", 2},
		{"ordinal spanish", "la tercera opción", KindOrdinal, "", 3},
		{"ordinal numeral", "5th", KindOrdinal, "", 5},
		{"ordinal needs whole text", "the second one is better", KindNone, "", 0},
		{"director by", "popularity of Dune by Denis Villeneuve", KindDirector, "Denis Villeneuve", 0},
		{"director spanish", "Roma dirigida por Alfonso Cuarón", KindDirector, "Alfonso Cuarón", 0},
		{"director with particle", "Pan's Labyrinth directed by Guillermo del Toro?", KindDirector, "Guillermo del Toro", 0},
		{"director lowercase ignored", "popularity of dune by denis", KindNone, "", 0},
		{"none", "what is trending", KindNone, "", 0},
		{"empty", "   ", KindNone, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint, ok := ExtractHint(tt.text)
			if tt.want == KindNone {
				if ok {
					t.Fatalf("expected no hint, got %+v", hint)
				}
				return
			}
			if !ok {
				t.Fatalf("expected %s hint, got none", tt.want)
			}
			if hint.Kind != tt.want || hint.Value != tt.value || hint.Number != tt.number {
				t.Fatalf("ExtractHint(%q) = %+v, want kind=%s value=%q number=%d", tt.text, hint, tt.want, tt.value, tt.number)
			}
		})
	}
}

func TestStripHint(t *testing.T) {
	hint, ok := ExtractHint("popularity of Dune by Denis Villeneuve")
	if !ok {
		t.Fatal("expected director hint")
	}
	if got := StripHint("popularity of Dune by Denis Villeneuve", hint); got != "popularity of Dune" {
		t.Fatalf("StripHint = %q", got)
	}

	year, _ := ExtractHint("Dune 2021 popularity")
	if got := StripHint("Dune 2021 popularity", year); got != "Dune popularity" {
		t.Fatalf("StripHint(year) = %q", got)
	}
}

func TestExtractTitleQuery(t *testing.T) {
	countryFn := func(text string) (string, bool) {
		if strings.Contains(strings.ToLower(text), "mexico") {
			return "mexico", true
		}
		return "", false
	}
	tests := []struct {
		name         string
		text         string
		stripCountry bool
		want         string
		ok           bool
	}{
		{"english popularity", "How popular is The Matrix?", false, "the matrix", true},
		{"spanish popularity", "¿Qué tan popular es La Casa de Papel?", false, "la casa de papel", true},
		{"keeps inner words", "popularity of Pirates of the Caribbean", false, "pirates of the caribbean", true},
		{"strips country", "popularity of Roma in Mexico", true, "roma", true},
		{"keeps country when not asked", "popularity of Roma in Mexico", false, "roma in mexico", true},
		{"availability", "where can I watch Dark", false, "dark", true},
		{"synopsis spanish", "sinopsis de la serie Dark", false, "dark", true},
		{"only phrasing", "how popular is", false, "", false},
		{"empty", "", false, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTitleQuery(tt.text, tt.stripCountry, countryFn)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ExtractTitleQuery(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}
