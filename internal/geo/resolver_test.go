package geo

import "testing"

func TestGuess(t *testing.T) {
	resolver, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	tests := []struct {
		name    string
		text    string
		iso     string
		matched string
	}{
		{"exact english", "Mexico", "MX", "mexico"},
		{"exact spanish accented", "México", "MX", "mexico"},
		{"phrase in question", "top 10 series in Spain 2024", "ES", "spain"},
		{"spanish phrase", "popularidad de Roma en España", "ES", "espana"},
		{"longest phrase wins", "most watched in South Korea", "KR", "south korea"},
		{"multiword spanish", "estrenos en Estados Unidos", "US", "estados unidos"},
		{"alias", "top movies in the UK", "GB", "uk"},
		{"upper iso code", "top 5 movies MX", "MX", "mx"},
		{"lower iso code ignored", "top 5 movies mx", "", ""},
		{"shouting skips words", "TOP 10 SERIES IN MX", "MX", "mx"},
		{"word boundary", "popularity of Indiana Jones", "", ""},
		{"no country", "what is trending", "", ""},
		{"empty", "  ", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Guess(tt.text)
			if got.ISO2 != tt.iso || got.Matched != tt.matched {
				t.Fatalf("Guess(%q) = %+v, want iso=%q matched=%q", tt.text, got, tt.iso, tt.matched)
			}
			if got.Found() != (tt.iso != "") {
				t.Fatalf("Found() = %v for %+v", got.Found(), got)
			}
		})
	}
}

func TestLookupAndMatch(t *testing.T) {
	resolver, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	country, ok := resolver.Lookup("mx")
	if !ok || country.Name != "Mexico" || country.NameES != "México" {
		t.Fatalf("Lookup(mx) = %+v, %v", country, ok)
	}
	if _, ok := resolver.Lookup("ZZ"); ok {
		t.Fatal("unexpected country for ZZ")
	}
	phrase, ok := resolver.Match("popularity of Roma in Mexico")
	if !ok || phrase != "mexico" {
		t.Fatalf("Match = %q, %v", phrase, ok)
	}
}

func TestNewFromJSONRejectsEmpty(t *testing.T) {
	if _, err := NewFromJSON([]byte(`{}`)); err == nil {
		t.Fatal("expected error for empty table")
	}
	if _, err := NewFromJSON([]byte(`not json`)); err == nil {
		t.Fatal("expected decode error")
	}
}
